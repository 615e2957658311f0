package record

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed/seed.yml
var seedFS embed.FS

type seedFile struct {
	Articles []Article `yaml:"articles"`
	Users    []User    `yaml:"users"`
}

// loadSeed parses the bundled starter dataset. It is the fallback for
// every load failure, so a parse error here is a build defect.
func loadSeed() ([]Article, []User, error) {
	data, err := seedFS.ReadFile("seed/seed.yml")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read seed dataset: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, nil, fmt.Errorf("failed to parse seed dataset: %w", err)
	}

	for i := range seed.Articles {
		if err := ValidateArticle(&seed.Articles[i]); err != nil {
			return nil, nil, fmt.Errorf("seed article %d: %w", seed.Articles[i].ID, err)
		}
	}
	for i := range seed.Users {
		if err := ValidateUser(&seed.Users[i]); err != nil {
			return nil, nil, fmt.Errorf("seed user %d: %w", seed.Users[i].ID, err)
		}
	}

	return seed.Articles, seed.Users, nil
}
