// internal/catalog/loader.go
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"adserve-core/internal/common/logger"
	"adserve-core/internal/embedding"
	"adserve-core/internal/models"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Loader builds the catalog from a flat directory of paired files:
// [name].jpg plus [name]_description.txt.
type Loader struct {
	embedder     embedding.Embedder
	imageBaseURL string
	logger       logger.Logger
}

func NewLoader(embedder embedding.Embedder, imageBaseURL string, log logger.Logger) *Loader {
	return &Loader{
		embedder:     embedder,
		imageBaseURL: strings.TrimSuffix(imageBaseURL, "/"),
		logger:       log,
	}
}

// Load scans dir for product pairs, parses each description file, embeds each
// product, and returns the populated store. Any malformed pair or an empty
// directory is an error; the caller treats that as fatal at startup.
func (l *Loader) Load(dir string) (*Store, error) {
	pairs, err := findProductPairs(dir)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no product pairs found in %s (expected [name].jpg and [name]_description.txt)", dir)
	}

	// Sorted base names give a stable insertion order, which keeps ranking
	// tie-breaks deterministic across restarts.
	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Strings(names)

	products := make([]*models.Product, 0, len(names))
	for i, name := range names {
		pair := pairs[name]

		product, err := l.parseDescriptionFile(pair.description)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", name, err)
		}

		product.ID = fmt.Sprintf("prod_%03d", i+1)
		product.ImageURL = l.imageBaseURL + "/" + filepath.Base(pair.image)
		product.Active = true
		product.Embedding = l.embedder.Embed(models.ProductEmbeddingText(product))

		products = append(products, product)

		l.logger.Info("Loaded product", map[string]interface{}{
			"id":   product.ID,
			"name": product.Name,
		})
	}

	return NewStore(products), nil
}

type productPair struct {
	image       string
	description string
}

func findProductPairs(dir string) (map[string]productPair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read products dir: %w", err)
	}

	pairs := make(map[string]productPair)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !imageExtensions[ext] {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		descPath := filepath.Join(dir, base+"_description.txt")
		if _, err := os.Stat(descPath); err != nil {
			continue
		}

		pairs[base] = productPair{
			image:       filepath.Join(dir, entry.Name()),
			description: descPath,
		}
	}

	return pairs, nil
}

// parseDescriptionFile reads the metadata header (key: value lines) followed
// by the free-text description body.
func (l *Loader) parseDescriptionFile(path string) (*models.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read description file: %w", err)
	}

	metadata := make(map[string]string)
	var descriptionLines []string
	inDescription := false

	for _, line := range strings.Split(string(raw), "\n") {
		if !inDescription && strings.Contains(line, ":") && !strings.HasPrefix(line, " ") {
			parts := strings.SplitN(line, ":", 2)
			metadata[strings.ToLower(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
			continue
		}
		inDescription = true
		if strings.TrimSpace(line) != "" {
			descriptionLines = append(descriptionLines, line)
		}
	}

	name := metadata["name"]
	if name == "" {
		return nil, fmt.Errorf("product 'name' is required in description file")
	}
	landingURL := metadata["url"]
	if landingURL == "" {
		return nil, fmt.Errorf("product 'url' is required in description file")
	}

	var price *float64
	if raw := metadata["price"]; raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			price = &parsed
		}
	}

	description := strings.TrimSpace(strings.Join(descriptionLines, "\n"))
	if description == "" {
		description = name
	}

	return &models.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Currency:    "USD",
		LandingURL:  landingURL,
	}, nil
}
