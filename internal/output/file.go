package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// JSONOutput appends newline-delimited JSON to one file per topic under
// basePath.
type JSONOutput struct {
	basePath string
	files    map[string]*os.File
}

func NewJSONOutput(basePath string) *JSONOutput {
	if basePath == "" {
		basePath = "."
	}
	return &JSONOutput{
		basePath: basePath,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	file, ok := j.files[topic]
	if !ok {
		if err := os.MkdirAll(j.basePath, os.ModePerm); err != nil {
			return err
		}
		var err error
		file, err = os.Create(filepath.Join(j.basePath, topic+".json"))
		if err != nil {
			return fmt.Errorf("failed to create file for topic %s: %w", topic, err)
		}
		j.files[topic] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err := file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}
