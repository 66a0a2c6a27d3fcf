package opendata

import (
	"context"
	"time"
)

const (
	DistrictURL    = "https://public.opendatasoft.com/explore/dataset/iris-demographie/download/?format=json&timezone=Europe/Berlin"
	LivingPlaceURL = "https://opendata.paris.fr/explore/dataset/commercesparis/download/?format=json&timezone=Europe/Berlin"
	StationURL     = "https://data.ratp.fr/explore/dataset/positions-geographiques-des-stations-du-reseau-ratp/download/?format=json&timezone=Europe/Berlin"
)

// Job is one dataset import, independent of its entity type.
type Job interface {
	// Key names the dataset in configuration files.
	Key() string
	Kind() string
	Table() string
	URL() string
	WithURL(url string) Job

	load(ctx context.Context, imp *Importer) (DatasetReport, error)
}

// Dataset binds a source URL to an entity kind and its field mapping. New
// builds the empty entity; nil means new(T).
type Dataset[T Entity] struct {
	Name    string
	Label   string
	Source  string
	Mapping Mapping[T]
	New     func() *T
}

func (d Dataset[T]) Key() string  { return d.Name }
func (d Dataset[T]) Kind() string { return d.Label }
func (d Dataset[T]) URL() string  { return d.Source }

func (d Dataset[T]) Table() string {
	var zero T
	return zero.TableName()
}

func (d Dataset[T]) WithURL(url string) Job {
	d.Source = url
	return d
}

func (d Dataset[T]) load(ctx context.Context, imp *Importer) (DatasetReport, error) {
	start := time.Now()
	rep := DatasetReport{Name: d.Name, FieldErrors: map[string]int{}}
	c := imp.console

	c.Println("", "Create "+d.Kind()+" entities from JSON export.", "Downloading JSON file ...")
	records, err := imp.fetcher.Fetch(ctx, d.Source)
	if err != nil {
		return rep, err
	}
	rep.Records = len(records)
	c.Printf("Downloaded %d records.\n", len(records))

	newEntity := d.New
	if newEntity == nil {
		newEntity = func() *T { return new(T) }
	}

	batch := NewBatcher[T](imp.store, imp.batchSize)
	c.Println("Starting to generate entities.")
	bar := imp.console.Bar(len(records))

	for i := range records {
		entity := newEntity()
		for _, fe := range PopulateInto(entity, d.Mapping, records[i].Fields) {
			rep.FieldErrors[fe.Source]++
		}
		batch.Stage(entity)
		bar.Advance()

		if batch.Due() {
			bar.Describe(c.Sprintf("Flushing %d entities.", batch.Pending()))
		}
		flushed, err := batch.MaybeFlush(ctx)
		if err != nil {
			rep.Batch = batch.Stats()
			return rep, err
		}
		if flushed {
			bar.Describe("Keep going.")
		}
	}
	bar.Finish()

	c.Println("Flushing last entities ...")
	err = batch.Close(ctx)
	rep.Batch = batch.Stats()
	rep.Duration = time.Since(start)
	if err != nil {
		return rep, err
	}
	c.Println("Done with success.")
	return rep, nil
}

var (
	DistrictDataset = Dataset[District]{
		Name:    "district",
		Label:   "District",
		Source:  DistrictURL,
		Mapping: DistrictMapping,
		New:     NewDistrict,
	}
	LivingPlaceDataset = Dataset[LivingPlace]{
		Name:    "living_place",
		Label:   "LivingPlace",
		Source:  LivingPlaceURL,
		Mapping: LivingPlaceMapping,
		New:     NewLivingPlace,
	}
	StationDataset = Dataset[Station]{
		Name:    "station",
		Label:   "Station",
		Source:  StationURL,
		Mapping: StationMapping,
		New:     NewStation,
	}
)

// Datasets returns the three imports in run order.
func Datasets() []Job {
	return []Job{DistrictDataset, LivingPlaceDataset, StationDataset}
}
