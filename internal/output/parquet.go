package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"burritowatch/internal/cloudwriter"
	"burritowatch/internal/models"
)

// summaryRecord is the flat parquet row for one batch message.
type summaryRecord struct {
	EventID              string  `parquet:"name=event_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	RunID                string  `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Timestamp            int64   `parquet:"name=timestamp, type=INT64"`
	RestaurantID         int32   `parquet:"name=restaurant_id, type=INT32"`
	ZipCode              string  `parquet:"name=zip_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	VeggieNormalPrice    float64 `parquet:"name=veggie_normal_price, type=DOUBLE"`
	VeggieDeliveryPrice  float64 `parquet:"name=veggie_delivery_price, type=DOUBLE"`
	ChickenNormalPrice   float64 `parquet:"name=chicken_normal_price, type=DOUBLE"`
	ChickenDeliveryPrice float64 `parquet:"name=chicken_delivery_price, type=DOUBLE"`
	SteakNormalPrice     float64 `parquet:"name=steak_normal_price, type=DOUBLE"`
	SteakDeliveryPrice   float64 `parquet:"name=steak_delivery_price, type=DOUBLE"`
	FetchError           string  `parquet:"name=fetch_error, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ParquetOutput writes one parquet file per topic, either locally or to an
// object store bucket.
type ParquetOutput struct {
	basePath string
	files    map[string]source.ParquetFile
	writers  map[string]*writer.ParquetWriter

	cloudFactory cloudwriter.Factory
	cloudBucket  string
}

func NewParquetOutput(config *models.Config) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath: config.Output.Path,
		files:    make(map[string]source.ParquetFile),
		writers:  make(map[string]*writer.ParquetWriter),
	}
	if p.basePath == "" {
		p.basePath = "."
	}

	if config.Output.Destination != "" && config.Output.Destination != "local" {
		switch config.CloudStorage.Provider {
		case "s3":
			factory, err := cloudwriter.NewS3WriterFactory(config.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			p.cloudFactory = factory
			p.cloudBucket = config.CloudStorage.BucketName
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}
	}

	return p, nil
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	var message Message
	if err := json.Unmarshal(msg, &message); err != nil {
		return err
	}

	pw, err := p.writerFor(topic)
	if err != nil {
		return err
	}

	record := summaryRecord{
		EventID:      message.EventID,
		RunID:        message.RunID,
		Timestamp:    message.Timestamp,
		RestaurantID: int32(message.Location.ID),
		ZipCode:      message.Location.ZipCode,
		FetchError:   message.Error,
	}
	if menu := message.Menu; menu != nil {
		record.VeggieNormalPrice = menu.VeggieBowlPrice.NormalPrice
		record.VeggieDeliveryPrice = menu.VeggieBowlPrice.DeliveryPrice
		record.ChickenNormalPrice = menu.ChickenBowlPrice.NormalPrice
		record.ChickenDeliveryPrice = menu.ChickenBowlPrice.DeliveryPrice
		record.SteakNormalPrice = menu.SteakBowlPrice.NormalPrice
		record.SteakDeliveryPrice = menu.SteakBowlPrice.DeliveryPrice
	}

	return pw.Write(record)
}

func (p *ParquetOutput) writerFor(topic string) (*writer.ParquetWriter, error) {
	if pw, ok := p.writers[topic]; ok {
		return pw, nil
	}

	objectName := fmt.Sprintf("%s_%s.parquet", topic, time.Now().UTC().Format("20060102T150405"))

	var file source.ParquetFile
	if p.cloudFactory != nil {
		cw, err := p.cloudFactory.NewWriter(p.cloudBucket, filepath.Join(p.basePath, objectName))
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer: %w", err)
		}
		file = newCloudParquetFile(cw)
	} else {
		if err := os.MkdirAll(p.basePath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		file, err = local.NewLocalFileWriter(filepath.Join(p.basePath, objectName))
		if err != nil {
			return nil, fmt.Errorf("failed to create parquet file: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(file, new(summaryRecord), 4)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}

	p.files[topic] = file
	p.writers[topic] = pw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	for topic, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			return fmt.Errorf("failed to finalize parquet writer for %s: %w", topic, err)
		}
		if err := p.files[topic].Close(); err != nil {
			return err
		}
	}
	return nil
}

// cloudParquetFile adapts an ObjectWriter to the parquet source interface.
// Only sequential writing is supported; the library never reads back or
// seeks from the end during plain writes.
type cloudParquetFile struct {
	cloudWriter cloudwriter.ObjectWriter
	offset      int64
}

func newCloudParquetFile(cw cloudwriter.ObjectWriter) *cloudParquetFile {
	return &cloudParquetFile{cloudWriter: cw}
}

func (c *cloudParquetFile) Open(name string) (source.ParquetFile, error) { return c, nil }

func (c *cloudParquetFile) Create(name string) (source.ParquetFile, error) { return c, nil }

func (c *cloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *cloudParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *cloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *cloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
