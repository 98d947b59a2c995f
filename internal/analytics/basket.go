// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopmetrics/shopmetrics/internal/models"
)

// Miner mines frequent itemsets and association rules from order baskets.
// It is a seam between the selection/formatting policy in this package and
// the mining algorithm itself, so the policy can be tested against a stub.
//
// Baskets are per-order distinct product sets. minSupport is the minimum
// itemset support (fraction of baskets); minLift is the minimum rule lift.
type Miner interface {
	Mine(ctx context.Context, baskets [][]string, minSupport, minLift float64) ([]models.FrequentItemset, []models.AssociationRule, error)
}

// BasketConfig tunes the market-basket summarizer.
type BasketConfig struct {
	// MinSupport is the minimum itemset support (default 0.025).
	MinSupport float64

	// MinLift is the minimum association-rule lift (default 1).
	MinLift float64

	// TopN caps the rendered combination table (default 5).
	TopN int
}

// DefaultBasketConfig returns the thresholds the dashboard ships with.
func DefaultBasketConfig() BasketConfig {
	return BasketConfig{
		MinSupport: 0.025,
		MinLift:    1.0,
		TopN:       5,
	}
}

// BuildBaskets groups line items by order and returns the distinct product
// set of every order with at least two distinct products. Single-product
// orders carry no co-purchase signal and are dropped before mining.
// Baskets and their products are sorted for deterministic mining output.
func BuildBaskets(items []models.LineItem) [][]string {
	byOrder := make(map[string]map[string]struct{})
	for _, li := range items {
		if li.Name == "" {
			continue
		}
		set, ok := byOrder[li.OrderName]
		if !ok {
			set = make(map[string]struct{})
			byOrder[li.OrderName] = set
		}
		set[li.Name] = struct{}{}
	}

	orderNames := make([]string, 0, len(byOrder))
	for name, set := range byOrder {
		if len(set) >= 2 {
			orderNames = append(orderNames, name)
		}
	}
	sort.Strings(orderNames)

	baskets := make([][]string, 0, len(orderNames))
	for _, name := range orderNames {
		set := byOrder[name]
		products := make([]string, 0, len(set))
		for p := range set {
			products = append(products, p)
		}
		sort.Strings(products)
		baskets = append(baskets, products)
	}
	return baskets
}

// TopCombinations runs the full market-basket pipeline: build baskets,
// delegate mining to the Miner, then apply the selection policy — dedup
// rules by their combined antecedent+consequent item set keeping the
// highest-support occurrence, sort descending by support, and keep the top
// N as percentage-of-orders rows.
func TopCombinations(ctx context.Context, miner Miner, items []models.LineItem, cfg BasketConfig) ([]models.ProductCombination, error) {
	if cfg.MinSupport == 0 {
		cfg = DefaultBasketConfig()
	}

	baskets := BuildBaskets(items)
	if len(baskets) == 0 {
		return []models.ProductCombination{}, nil
	}

	_, rules, err := miner.Mine(ctx, baskets, cfg.MinSupport, cfg.MinLift)
	if err != nil {
		return nil, fmt.Errorf("mine baskets: %w", err)
	}

	return selectCombinations(rules, cfg.TopN), nil
}

// selectCombinations applies the dedup/sort/cutoff policy to mined rules.
func selectCombinations(rules []models.AssociationRule, topN int) []models.ProductCombination {
	type candidate struct {
		products []string
		key      string
		support  float64
	}

	candidates := make([]candidate, 0, len(rules))
	for _, rule := range rules {
		products := combinedItems(rule)
		candidates = append(candidates, candidate{
			products: products,
			key:      strings.Join(products, "\x1f"),
			support:  rule.Support,
		})
	}

	// Highest support first; key ascending breaks ties deterministically.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].support != candidates[j].support {
			return candidates[i].support > candidates[j].support
		}
		return candidates[i].key < candidates[j].key
	})

	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.ProductCombination, 0, topN)
	for _, c := range candidates {
		if _, dup := seen[c.key]; dup {
			continue
		}
		seen[c.key] = struct{}{}

		out = append(out, models.ProductCombination{
			Rank:        len(out) + 1,
			Products:    c.products,
			PctOfOrders: math.Round(c.support*100*100) / 100,
		})
		if len(out) == topN {
			break
		}
	}
	return out
}

// combinedItems returns the rule's antecedents and consequents as one
// sorted, de-duplicated item list. This is the dedup key: two rules over
// the same item set are the same combination regardless of direction.
func combinedItems(rule models.AssociationRule) []string {
	set := make(map[string]struct{}, len(rule.Antecedents)+len(rule.Consequents))
	for _, item := range rule.Antecedents {
		set[item] = struct{}{}
	}
	for _, item := range rule.Consequents {
		set[item] = struct{}{}
	}
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}
