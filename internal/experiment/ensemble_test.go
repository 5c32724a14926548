package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/implantsim/internal/config"
)

func TestEnsemble_Order(t *testing.T) {
	members := []Member{
		{Label: "slow", Params: config.Params{"k": 0.05}},
		{Label: "mid", Params: config.Params{"k": 0.1}},
		{Label: "fast", Params: config.Params{"k": 0.8}},
	}
	results, err := NewEnsemble(NewRegistry(), "degradation", members).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, m := range members {
		if results[i].Params["k"] != m.Params["k"] {
			t.Errorf("result %d has k=%v, want %v", i, results[i].Params["k"], m.Params["k"])
		}
	}
	if !(results[0].Series.Last() > results[1].Series.Last() && results[1].Series.Last() > results[2].Series.Last()) {
		t.Error("faster decay should leave less material")
	}
}

func TestEnsemble_Error(t *testing.T) {
	members := []Member{
		{Label: "ok", Params: config.Params{"k": 0.1}},
		{Label: "typo", Params: config.Params{"kk": 0.1}},
	}
	_, err := NewEnsemble(NewRegistry(), "degradation", members).Run(context.Background())
	if !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("expected ErrUnknownParam, got %v", err)
	}
}
