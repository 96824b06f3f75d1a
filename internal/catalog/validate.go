package catalog

import (
	"fmt"

	"ramendo/internal/domain"
	"ramendo/internal/rules"
)

func (c *Catalog) validate() error {
	validators := []func() error{
		c.validateIngredients,
		c.validateCompatibility,
		c.validatePairs,
		c.validateSymmetry,
		c.validateRegionalSets,
		c.validateBonuses,
		c.validateTitles,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) validateIngredients() error {
	if len(c.ingredients) == 0 {
		return &domain.ConfigError{Table: "ingredients", Reason: "table is empty"}
	}
	for _, ing := range c.ingredients {
		if ing.CardCount < 1 {
			return &domain.ConfigError{Table: "ingredients", Key: ing.ID, Reason: fmt.Sprintf("cardCount must be positive, got %d", ing.CardCount)}
		}
		if !validCategory(string(ing.Category)) {
			return &domain.ConfigError{Table: "ingredients", Key: ing.ID, Reason: fmt.Sprintf("unknown category %q", ing.Category)}
		}
		if !validColor(ing.ColorTag) {
			return &domain.ConfigError{Table: "ingredients", Key: ing.ID, Reason: fmt.Sprintf("unknown colorTag %q", ing.ColorTag)}
		}
	}
	return nil
}

func (c *Catalog) validateCompatibility() error {
	compat := c.scoring.SoupNoodleCompatibility
	if compat.MaxPoints < 0 || compat.MaxPoints > 4 {
		return &domain.ConfigError{Table: "scoring", Key: "soupNoodleCompatibility.maxPoints", Reason: "must be within [0,4]"}
	}
	if len(c.soups) == 0 || len(c.noodles) == 0 {
		return &domain.ConfigError{Table: "scoring", Key: "soupNoodleCompatibility", Reason: "soups and noodles must not be empty"}
	}
	for _, s := range c.soups {
		for _, n := range c.noodles {
			v, ok := c.Compatibility(s.ID, n.ID)
			key := "soupNoodleCompatibility." + s.ID + "." + n.ID
			if !ok {
				return &domain.ConfigError{Table: "scoring", Key: key, Reason: "missing pair"}
			}
			if v < 0 || v > 4 {
				return &domain.ConfigError{Table: "scoring", Key: key, Reason: fmt.Sprintf("score %d outside [0,4]", v)}
			}
		}
	}
	for soup := range compat.Table {
		if _, ok := c.soupByID[soup]; !ok {
			return &domain.ConfigError{Table: "scoring", Key: "soupNoodleCompatibility." + soup, Reason: "unknown soup"}
		}
	}
	return nil
}

func (c *Catalog) validatePairs() error {
	lists := map[string][]domain.Pair{
		"adjacencyGoodPairs": c.scoring.AdjacencyGoodPairs.Pairs,
		"adjacencyBadPairs":  c.scoring.AdjacencyBadPairs.Pairs,
	}
	for key, pairs := range lists {
		for _, p := range pairs {
			for _, id := range p {
				if _, ok := c.ingredientByID[id]; !ok {
					return &domain.ConfigError{Table: "scoring", Key: key, Reason: fmt.Sprintf("unknown ingredient %q", id)}
				}
			}
		}
	}
	return nil
}

func (c *Catalog) validateSymmetry() error {
	for _, pair := range c.scoring.SymmetryCheck.Pairs {
		for _, coord := range pair {
			if !coord.Valid() {
				return &domain.ConfigError{Table: "scoring", Key: "symmetryCheck", Reason: fmt.Sprintf("coordinate %v outside the grid", coord)}
			}
		}
	}
	return nil
}

func (c *Catalog) validateRegionalSets() error {
	for _, set := range c.scoring.RegionalSets.Sets {
		key := "regionalSets." + set.ID
		if _, ok := c.soupByID[set.RequiredSoup]; !ok {
			return &domain.ConfigError{Table: "scoring", Key: key, Reason: fmt.Sprintf("unknown soup %q", set.RequiredSoup)}
		}
		if _, ok := c.noodleByID[set.RequiredNoodle]; !ok {
			return &domain.ConfigError{Table: "scoring", Key: key, Reason: fmt.Sprintf("unknown noodle %q", set.RequiredNoodle)}
		}
		for _, id := range set.IngredientPool {
			if _, ok := c.ingredientByID[id]; !ok {
				return &domain.ConfigError{Table: "scoring", Key: key, Reason: fmt.Sprintf("unknown ingredient %q", id)}
			}
		}
		if set.MinIngredients < 1 || set.MinIngredients > len(set.IngredientPool) {
			return &domain.ConfigError{Table: "scoring", Key: key, Reason: "minIngredients must be within the pool size"}
		}
	}
	return nil
}

func (c *Catalog) validateBonuses() error {
	for _, ch := range c.characters {
		for _, b := range ch.Bonuses {
			if err := c.checkRefs(b.Condition); err != nil {
				return &domain.ConfigError{Table: "characters", Key: ch.ID, Reason: fmt.Sprintf("rule %q: %v", b.Label, err)}
			}
		}
	}
	for _, cu := range c.customers {
		for _, b := range cu.Bonuses {
			if err := c.checkRefs(b.Condition); err != nil {
				return &domain.ConfigError{Table: "customers", Key: cu.ID, Reason: fmt.Sprintf("rule %q: %v", b.Label, err)}
			}
		}
	}
	return nil
}

func (c *Catalog) checkRefs(cond rules.Condition) error {
	refs := rules.References(cond)
	for _, id := range refs.Ingredients {
		if _, ok := c.ingredientByID[id]; !ok {
			return fmt.Errorf("unknown ingredient %q", id)
		}
	}
	for _, id := range refs.Soups {
		if _, ok := c.soupByID[id]; !ok {
			return fmt.Errorf("unknown soup %q", id)
		}
	}
	for _, id := range refs.Noodles {
		if _, ok := c.noodleByID[id]; !ok {
			return fmt.Errorf("unknown noodle %q", id)
		}
	}
	for _, cat := range refs.Categories {
		if !validCategory(cat) {
			return fmt.Errorf("unknown category %q", cat)
		}
	}
	return nil
}

func (c *Catalog) validateTitles() error {
	for i := range c.titles.Comparative {
		t := &c.titles.Comparative[i]
		m, err := rules.ParseMetric(t.Condition)
		if err != nil {
			return &domain.ConfigError{Table: "titles", Key: t.ID, Reason: err.Error()}
		}
		t.Category, t.Metric = TitleComparative, m
	}
	for i := range c.titles.Achievement {
		t := &c.titles.Achievement[i]
		a, err := rules.ParseAchievement(t.Condition)
		if err != nil {
			return &domain.ConfigError{Table: "titles", Key: t.ID, Reason: err.Error()}
		}
		t.Category, t.Achievement = TitleAchievement, a
	}
	return nil
}

func validCategory(cat string) bool {
	for _, c := range Categories {
		if string(c) == cat {
			return true
		}
	}
	return false
}

func validColor(tag ColorTag) bool {
	for _, c := range ColorTags {
		if c == tag {
			return true
		}
	}
	return false
}
