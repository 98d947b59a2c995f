// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package analytics

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopmetrics/shopmetrics/internal/models"
)

// stubMiner returns canned rules so the selection policy can be tested in
// isolation from the mining algorithm.
type stubMiner struct {
	rules   []models.AssociationRule
	err     error
	baskets [][]string
}

func (s *stubMiner) Mine(ctx context.Context, baskets [][]string, minSupport, minLift float64) ([]models.FrequentItemset, []models.AssociationRule, error) {
	s.baskets = baskets
	return nil, s.rules, s.err
}

func TestBuildBasketsDropsSingletons(t *testing.T) {
	items := []models.LineItem{
		{OrderName: "#1", Name: "tea"},
		{OrderName: "#1", Name: "mug"},
		{OrderName: "#2", Name: "tea"}, // single product, dropped
		{OrderName: "#3", Name: "tea"},
		{OrderName: "#3", Name: "tea"}, // duplicate, still one product
		{OrderName: "#4", Name: "pot"},
		{OrderName: "#4", Name: "tea"},
		{OrderName: "#4", Name: ""}, // blank product names are skipped
	}

	baskets := BuildBaskets(items)

	want := [][]string{
		{"mug", "tea"},
		{"pot", "tea"},
	}
	if !reflect.DeepEqual(baskets, want) {
		t.Errorf("BuildBaskets = %v, want %v", baskets, want)
	}
}

func TestBuildBasketsEmptyInput(t *testing.T) {
	if got := BuildBaskets(nil); len(got) != 0 {
		t.Errorf("BuildBaskets(nil) = %v, want empty", got)
	}
}

func TestTopCombinationsDedupAndCutoff(t *testing.T) {
	// Two rules over the same item set in opposite directions must
	// collapse to one combination; the winner is the higher support.
	miner := &stubMiner{rules: []models.AssociationRule{
		{Antecedents: []string{"tea"}, Consequents: []string{"mug"}, Support: 0.10},
		{Antecedents: []string{"mug"}, Consequents: []string{"tea"}, Support: 0.10},
		{Antecedents: []string{"pot"}, Consequents: []string{"tea"}, Support: 0.30},
		{Antecedents: []string{"jar"}, Consequents: []string{"lid"}, Support: 0.20},
	}}

	items := []models.LineItem{
		{OrderName: "#1", Name: "tea"},
		{OrderName: "#1", Name: "mug"},
	}

	combos, err := TopCombinations(context.Background(), miner, items, BasketConfig{
		MinSupport: 0.025, MinLift: 1, TopN: 2,
	})
	if err != nil {
		t.Fatalf("TopCombinations: %v", err)
	}

	if len(combos) != 2 {
		t.Fatalf("len(combos) = %d, want 2 (topN)", len(combos))
	}
	if !reflect.DeepEqual(combos[0].Products, []string{"pot", "tea"}) {
		t.Errorf("rank 1 = %v, want [pot tea]", combos[0].Products)
	}
	if !reflect.DeepEqual(combos[1].Products, []string{"jar", "lid"}) {
		t.Errorf("rank 2 = %v, want [jar lid]", combos[1].Products)
	}
	if combos[0].Rank != 1 || combos[1].Rank != 2 {
		t.Errorf("ranks = %d, %d, want 1, 2", combos[0].Rank, combos[1].Rank)
	}
	if combos[0].PctOfOrders != 30.0 {
		t.Errorf("PctOfOrders = %g, want 30", combos[0].PctOfOrders)
	}
}

func TestTopCombinationsPctRounding(t *testing.T) {
	miner := &stubMiner{rules: []models.AssociationRule{
		{Antecedents: []string{"a"}, Consequents: []string{"b"}, Support: 0.033333},
	}}
	items := []models.LineItem{
		{OrderName: "#1", Name: "a"},
		{OrderName: "#1", Name: "b"},
	}

	combos, err := TopCombinations(context.Background(), miner, items, DefaultBasketConfig())
	if err != nil {
		t.Fatalf("TopCombinations: %v", err)
	}
	if combos[0].PctOfOrders != 3.33 {
		t.Errorf("PctOfOrders = %g, want 3.33", combos[0].PctOfOrders)
	}
}

func TestTopCombinationsNoBaskets(t *testing.T) {
	miner := &stubMiner{}
	combos, err := TopCombinations(context.Background(), miner,
		[]models.LineItem{{OrderName: "#1", Name: "solo"}}, DefaultBasketConfig())
	if err != nil {
		t.Fatalf("TopCombinations: %v", err)
	}
	if len(combos) != 0 {
		t.Errorf("combos = %v, want empty without qualifying baskets", combos)
	}
	if miner.baskets != nil {
		t.Error("miner was invoked despite having no baskets")
	}
}

func TestTopCombinationsMinerError(t *testing.T) {
	miner := &stubMiner{err: errors.New("boom")}
	items := []models.LineItem{
		{OrderName: "#1", Name: "a"},
		{OrderName: "#1", Name: "b"},
	}
	if _, err := TopCombinations(context.Background(), miner, items, DefaultBasketConfig()); err == nil {
		t.Fatal("expected miner error to propagate")
	}
}

func TestTopCombinationsTieBreaksDeterministically(t *testing.T) {
	miner := &stubMiner{rules: []models.AssociationRule{
		{Antecedents: []string{"z"}, Consequents: []string{"y"}, Support: 0.10},
		{Antecedents: []string{"a"}, Consequents: []string{"b"}, Support: 0.10},
	}}
	items := []models.LineItem{
		{OrderName: "#1", Name: "a"},
		{OrderName: "#1", Name: "b"},
	}

	combos, err := TopCombinations(context.Background(), miner, items, DefaultBasketConfig())
	if err != nil {
		t.Fatalf("TopCombinations: %v", err)
	}
	if !reflect.DeepEqual(combos[0].Products, []string{"a", "b"}) {
		t.Errorf("rank 1 = %v, want [a b] by key ascending on tied support", combos[0].Products)
	}
}
