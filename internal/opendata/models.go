package opendata

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Schema is the Postgres schema holding the imported tables.
const Schema = "opendata"

// Entity is anything the importer can persist into its own table.
type Entity interface {
	TableName() string
}

// District holds IRIS-level demographic statistics (INSEE 2012 census).
type District struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	GeoPoint  pq.Float64Array `gorm:"type:double precision[];column:geo_point"`
	TypIris   string          `gorm:"column:typ_iris"`
	P12Pop    float64         `gorm:"column:p12_pop"`
	DensPop12 float64         `gorm:"column:dens_pop12"`
	P12H0014  float64         `gorm:"column:p12_h0014"`
	P12H1529  float64         `gorm:"column:p12_h1529"`
	P12H3044  float64         `gorm:"column:p12_h3044"`
	P12H4559  float64         `gorm:"column:p12_h4559"`
	P12H6074  float64         `gorm:"column:p12_h6074"`
	P12H75p   float64         `gorm:"column:p12_h75p"`
	P12Pop60p float64         `gorm:"column:p12_pop60p"`
	P12Pop001 float64         `gorm:"column:p12_pop001"`
}

func (District) TableName() string { return Schema + ".district" }

// LivingPlace is a shop or service point from the Paris commerce census.
type LivingPlace struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	ActivityCode  string          `gorm:"column:activity_code"`
	ActivityLabel string          `gorm:"column:activity_label"`
	Coordinates   pq.Float64Array `gorm:"type:double precision[];column:coordinates"`
	Arr           int             `gorm:"column:arr"`
	Address       string          `gorm:"column:address"`
	Situation     string          `gorm:"column:situation"`
	Area          string          `gorm:"column:area"`
}

func (LivingPlace) TableName() string { return Schema + ".living_place" }

// Station is a RATP stop.
type Station struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Departement string          `gorm:"column:departement"`
	ZipCode     string          `gorm:"column:zip_code"`
	Coordinates pq.Float64Array `gorm:"type:double precision[];column:coordinates"`
	StopID      string          `gorm:"column:stop_id"`
	Description string          `gorm:"column:description"`
	Name        string          `gorm:"column:name"`
}

func (Station) TableName() string { return Schema + ".station" }

func NewDistrict() *District       { return &District{ID: uuid.New()} }
func NewLivingPlace() *LivingPlace { return &LivingPlace{ID: uuid.New()} }
func NewStation() *Station         { return &Station{ID: uuid.New()} }
