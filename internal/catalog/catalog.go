// Package catalog loads the read-only content tables every room plays with.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"

	"ramendo/internal/domain"
)

//go:embed data/*.json
var defaultData embed.FS

const (
	fileIngredients = "ingredients.json"
	fileSoups       = "soups.json"
	fileNoodles     = "noodles.json"
	fileCharacters  = "characters.json"
	fileCustomers   = "customers.json"
	fileScoring     = "scoring.json"
	fileTitles      = "titles.json"
)

// Catalog is an immutable snapshot of the content tables. Rooms keep the
// pointer they were created with, so a reload never changes a running game.
type Catalog struct {
	ingredients []Ingredient
	soups       []Soup
	noodles     []Noodle
	characters  []Character
	customers   []Customer
	scoring     Scoring
	titles      Titles

	ingredientByID map[string]*Ingredient
	soupByID       map[string]*Soup
	noodleByID     map[string]*Noodle
	characterByID  map[string]*Character
	customerByID   map[string]*Customer
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// Load reads the seven tables from a directory on disk.
func Load(dir string) (*Catalog, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads and validates the seven tables from fsys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	files := []struct {
		name string
		dst  any
	}{
		{fileIngredients, &c.ingredients},
		{fileSoups, &c.soups},
		{fileNoodles, &c.noodles},
		{fileCharacters, &c.characters},
		{fileCustomers, &c.customers},
		{fileScoring, &c.scoring},
		{fileTitles, &c.titles},
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(data, f.dst); err != nil {
			return nil, &domain.ConfigError{Table: tableName(f.name), Reason: err.Error()}
		}
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func tableName(file string) string {
	return file[:len(file)-len(path.Ext(file))]
}

func (c *Catalog) index() error {
	c.ingredientByID = make(map[string]*Ingredient, len(c.ingredients))
	for i := range c.ingredients {
		ing := &c.ingredients[i]
		if _, dup := c.ingredientByID[ing.ID]; dup || ing.ID == "" {
			return &domain.ConfigError{Table: "ingredients", Key: ing.ID, Reason: "missing or duplicate id"}
		}
		c.ingredientByID[ing.ID] = ing
	}
	c.soupByID = make(map[string]*Soup, len(c.soups))
	for i := range c.soups {
		s := &c.soups[i]
		if _, dup := c.soupByID[s.ID]; dup || s.ID == "" {
			return &domain.ConfigError{Table: "soups", Key: s.ID, Reason: "missing or duplicate id"}
		}
		c.soupByID[s.ID] = s
	}
	c.noodleByID = make(map[string]*Noodle, len(c.noodles))
	for i := range c.noodles {
		n := &c.noodles[i]
		if _, dup := c.noodleByID[n.ID]; dup || n.ID == "" {
			return &domain.ConfigError{Table: "noodles", Key: n.ID, Reason: "missing or duplicate id"}
		}
		c.noodleByID[n.ID] = n
	}
	c.characterByID = make(map[string]*Character, len(c.characters))
	for i := range c.characters {
		ch := &c.characters[i]
		if _, dup := c.characterByID[ch.ID]; dup || ch.ID == "" {
			return &domain.ConfigError{Table: "characters", Key: ch.ID, Reason: "missing or duplicate id"}
		}
		c.characterByID[ch.ID] = ch
	}
	c.customerByID = make(map[string]*Customer, len(c.customers))
	for i := range c.customers {
		cu := &c.customers[i]
		if _, dup := c.customerByID[cu.ID]; dup || cu.ID == "" {
			return &domain.ConfigError{Table: "customers", Key: cu.ID, Reason: "missing or duplicate id"}
		}
		c.customerByID[cu.ID] = cu
	}
	return nil
}

// Ingredient looks up an ingredient by id.
func (c *Catalog) Ingredient(id string) (Ingredient, bool) {
	ing, ok := c.ingredientByID[id]
	if !ok {
		return Ingredient{}, false
	}
	return *ing, true
}

func (c *Catalog) Soup(id string) (Soup, bool) {
	s, ok := c.soupByID[id]
	if !ok {
		return Soup{}, false
	}
	return *s, true
}

func (c *Catalog) Noodle(id string) (Noodle, bool) {
	n, ok := c.noodleByID[id]
	if !ok {
		return Noodle{}, false
	}
	return *n, true
}

// Character returns the shared catalog entry; callers must not mutate it.
func (c *Catalog) Character(id string) (*Character, bool) {
	ch, ok := c.characterByID[id]
	return ch, ok
}

// Customer returns the shared catalog entry; callers must not mutate it.
func (c *Catalog) Customer(id string) (*Customer, bool) {
	cu, ok := c.customerByID[id]
	return cu, ok
}

func (c *Catalog) Ingredients() []Ingredient { return append([]Ingredient(nil), c.ingredients...) }

func (c *Catalog) Scoring() *Scoring { return &c.scoring }

func (c *Catalog) Titles() Titles { return c.titles }

func (c *Catalog) SoupIDs() []string {
	ids := make([]string, len(c.soups))
	for i, s := range c.soups {
		ids[i] = s.ID
	}
	return ids
}

func (c *Catalog) NoodleIDs() []string {
	ids := make([]string, len(c.noodles))
	for i, n := range c.noodles {
		ids[i] = n.ID
	}
	return ids
}

func (c *Catalog) CharacterIDs() []string {
	ids := make([]string, len(c.characters))
	for i, ch := range c.characters {
		ids[i] = ch.ID
	}
	return ids
}

func (c *Catalog) CustomerIDs() []string {
	ids := make([]string, len(c.customers))
	for i, cu := range c.customers {
		ids[i] = cu.ID
	}
	return ids
}

// CardCounts returns the pool composition in catalog order.
func (c *Catalog) CardCounts() []domain.CardCount {
	counts := make([]domain.CardCount, len(c.ingredients))
	for i, ing := range c.ingredients {
		counts[i] = domain.CardCount{IngredientID: ing.ID, Count: ing.CardCount}
	}
	return counts
}

// Compatibility returns the soup and noodle score, false if either id is unknown.
func (c *Catalog) Compatibility(soup, noodle string) (int, bool) {
	row, ok := c.scoring.SoupNoodleCompatibility.Table[soup]
	if !ok {
		return 0, false
	}
	v, ok := row[noodle]
	return v, ok
}

// CheckCapacity verifies the tables can seat a full room.
func (c *Catalog) CheckCapacity(maxPlayers, activeCustomers int) error {
	if len(c.characters) < maxPlayers {
		return &domain.ConfigError{Table: "characters", Reason: fmt.Sprintf("%d characters cannot seat %d players", len(c.characters), maxPlayers)}
	}
	if len(c.customers) < activeCustomers {
		return &domain.ConfigError{Table: "customers", Reason: fmt.Sprintf("%d customers cannot fill %d active slots", len(c.customers), activeCustomers)}
	}
	return nil
}

type snapshot struct {
	Ingredients []Ingredient `json:"ingredients"`
	Soups       []Soup       `json:"soups"`
	Noodles     []Noodle     `json:"noodles"`
	Characters  []Character  `json:"characters"`
	Customers   []Customer   `json:"customers"`
	Scoring     Scoring      `json:"scoring"`
	Titles      Titles       `json:"titles"`
}

// MarshalJSON emits every table in the on-disk schema, keyed by table name.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		Ingredients: c.ingredients,
		Soups:       c.soups,
		Noodles:     c.noodles,
		Characters:  c.characters,
		Customers:   c.customers,
		Scoring:     c.scoring,
		Titles:      c.titles,
	})
}
