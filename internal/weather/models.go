package weather

import (
	"database/sql"
	"time"
)

// Reading is one weather observation for a city at a point in time.
// A zero ObservedAt means "the moment it was persisted"; the store fills it in.
type Reading struct {
	CityName    string    `json:"city"`
	Temperature int       `json:"temperatureC"`
	Humidity    int       `json:"humidityPercent"`
	Description string    `json:"description"`
	ObservedAt  time.Time `json:"observedAt"`
}

// Record is a raw row as read back from the store. Every column is nullable
// because the read path applies no policy; cleaning decides what to keep.
type Record struct {
	ID          int64          `db:"id" json:"id"`
	CityName    sql.NullString `db:"city_name" json:"-"`
	Temperature sql.NullInt64  `db:"temperature" json:"-"`
	Humidity    sql.NullInt64  `db:"humidity" json:"-"`
	Description sql.NullString `db:"description" json:"-"`
	ObservedAt  sql.NullTime   `db:"data_noted_at" json:"-"`
}

// RecordFromReading builds a fully populated Record.
func RecordFromReading(id int64, r Reading) Record {
	return Record{
		ID:          id,
		CityName:    sql.NullString{String: r.CityName, Valid: true},
		Temperature: sql.NullInt64{Int64: int64(r.Temperature), Valid: true},
		Humidity:    sql.NullInt64{Int64: int64(r.Humidity), Valid: true},
		Description: sql.NullString{String: r.Description, Valid: true},
		ObservedAt:  sql.NullTime{Time: r.ObservedAt, Valid: !r.ObservedAt.IsZero()},
	}
}

// RecordView is the JSON shape of a Record; missing values are null.
type RecordView struct {
	ID          int64      `json:"id"`
	CityName    *string    `json:"city"`
	Temperature *int64     `json:"temperatureC"`
	Humidity    *int64     `json:"humidityPercent"`
	Description *string    `json:"description"`
	ObservedAt  *time.Time `json:"observedAt"`
}

// View converts the record into its JSON representation.
func (r Record) View() RecordView {
	v := RecordView{ID: r.ID}
	if r.CityName.Valid {
		v.CityName = &r.CityName.String
	}
	if r.Temperature.Valid {
		v.Temperature = &r.Temperature.Int64
	}
	if r.Humidity.Valid {
		v.Humidity = &r.Humidity.Int64
	}
	if r.Description.Valid {
		v.Description = &r.Description.String
	}
	if r.ObservedAt.Valid {
		v.ObservedAt = &r.ObservedAt.Time
	}
	return v
}
