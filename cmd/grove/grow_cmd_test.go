package main

import (
	"testing"
)

func TestCostStrategy(t *testing.T) {
	cs, err := costStrategy("nunez:2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a := cs.Adjust(1, 1); a != 0.25 {
		t.Errorf("expected a nunez strategy with weight 2, got %v", a)
	}
	if cs, err = costStrategy("tan-schlimmer"); err != nil || cs.Name() != "tan-schlimmer" {
		t.Errorf("expected tan-schlimmer, got %v %v", cs, err)
	}
	for _, invalid := range []string{"nunez:heavy", "linear"} {
		if _, err = costStrategy(invalid); err == nil {
			t.Errorf("expected an error parsing %s", invalid)
		}
	}
}

func TestGrowCmdConfigValidate(t *testing.T) {
	valid := func() *growCmdConfig {
		return &growCmdConfig{metadataInput: "md.yml", algorithm: "id3", pruneStrategy: "none", member: "id3"}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []func(*growCmdConfig){
		func(c *growCmdConfig) { c.metadataInput = "" },
		func(c *growCmdConfig) { c.algorithm = "cart" },
		func(c *growCmdConfig) { c.pruneStrategy = "rules"; c.validationSplit = 0.3 },
		func(c *growCmdConfig) { c.pruneStrategy = "error-reduction" },
		func(c *growCmdConfig) { c.algorithm = "forest"; c.pruneStrategy = "error-reduction"; c.validationSplit = 0.3 },
		func(c *growCmdConfig) { c.costStrategy = "tan-schlimmer" },
		func(c *growCmdConfig) { c.member = "svm" },
	}
	for i, modify := range cases {
		c := valid()
		modify(c)
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected an error", i)
		}
	}
	c := valid()
	c.algorithm, c.pruneStrategy, c.validationSplit, c.costStrategy = "c45", "rules", 0.3, "nunez:1"
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
