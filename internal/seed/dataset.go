package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"kirin-dashboard/internal/models"
)

//go:embed data/demo.yaml
var demoYAML []byte

// Dataset is the demo content served when the dashboard runs without a CMS.
type Dataset struct {
	User     models.User
	Pages    []models.Page
	Sections map[string][]models.Section
	Media    map[string][]models.Media
}

// Demo parses the embedded demo dataset.
func Demo() (*Dataset, error) {
	return Parse(demoYAML)
}

// Parse reads a dataset from YAML. Records are routed through their JSON
// codecs so YAML files follow the CMS wire format.
func Parse(data []byte) (*Dataset, error) {
	var raw struct {
		User     map[string]interface{}              `yaml:"user"`
		Pages    []map[string]interface{}            `yaml:"pages"`
		Sections map[string][]map[string]interface{} `yaml:"sections"`
		Media    map[string][]map[string]interface{} `yaml:"media"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse demo data: %w", err)
	}

	dataset := &Dataset{
		Sections: make(map[string][]models.Section, len(raw.Sections)),
		Media:    make(map[string][]models.Media, len(raw.Media)),
	}

	if err := convert(raw.User, &dataset.User); err != nil {
		return nil, fmt.Errorf("demo user: %w", err)
	}
	if err := convert(raw.Pages, &dataset.Pages); err != nil {
		return nil, fmt.Errorf("demo pages: %w", err)
	}
	for pageID, records := range raw.Sections {
		var sections []models.Section
		if err := convert(records, &sections); err != nil {
			return nil, fmt.Errorf("demo sections of page %s: %w", pageID, err)
		}
		dataset.Sections[pageID] = sections
	}
	for sectionID, records := range raw.Media {
		var media []models.Media
		if err := convert(records, &media); err != nil {
			return nil, fmt.Errorf("demo media of section %s: %w", sectionID, err)
		}
		dataset.Media[sectionID] = media
	}

	return dataset, nil
}

func convert(in interface{}, out interface{}) error {
	encoded, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, out)
}
