// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// Package mining implements frequent-itemset and association-rule mining
// over order baskets. It sits behind the analytics.Miner seam so the
// dashboard's selection policy can be tested independently of the
// algorithm.
package mining

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopmetrics/shopmetrics/internal/models"
)

// itemsetKey separates items in map keys. \x1f (unit separator) cannot
// appear in product names coming from CSV.
const itemsetKey = "\x1f"

// Apriori mines frequent itemsets level-wise and derives association rules
// from them. Supports are fractions of the basket count; rules are filtered
// by lift.
type Apriori struct{}

// NewApriori returns an Apriori miner.
func NewApriori() *Apriori {
	return &Apriori{}
}

// Mine returns all itemsets with support >= minSupport and all rules
// between their non-empty partitions with lift >= minLift.
//
// Itemsets are sorted by support descending; rules by lift descending.
func (a *Apriori) Mine(ctx context.Context, baskets [][]string, minSupport, minLift float64) ([]models.FrequentItemset, []models.AssociationRule, error) {
	if minSupport <= 0 || minSupport > 1 {
		return nil, nil, fmt.Errorf("min support must be in (0, 1], got %g", minSupport)
	}
	n := len(baskets)
	if n == 0 {
		return []models.FrequentItemset{}, []models.AssociationRule{}, nil
	}

	sets := make([]map[string]struct{}, n)
	for i, basket := range baskets {
		set := make(map[string]struct{}, len(basket))
		for _, item := range basket {
			set[item] = struct{}{}
		}
		sets[i] = set
	}

	// supports maps an itemset key to its support fraction.
	supports := make(map[string]float64)
	var frequent [][]string

	// Level 1: single items.
	itemCounts := make(map[string]int)
	for _, set := range sets {
		for item := range set {
			itemCounts[item]++
		}
	}
	var level [][]string
	for item, count := range itemCounts {
		support := float64(count) / float64(n)
		if support >= minSupport {
			itemset := []string{item}
			level = append(level, itemset)
			supports[item] = support
			frequent = append(frequent, itemset)
		}
	}
	sortItemsets(level)

	// Level k: join frequent (k-1)-itemsets sharing a k-2 prefix, then
	// count candidates in one scan per level.
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		candidates := joinLevel(level)
		if len(candidates) == 0 {
			break
		}

		var next [][]string
		for _, candidate := range candidates {
			count := 0
			for _, set := range sets {
				if containsAll(set, candidate) {
					count++
				}
			}
			support := float64(count) / float64(n)
			if support >= minSupport {
				next = append(next, candidate)
				supports[strings.Join(candidate, itemsetKey)] = support
				frequent = append(frequent, candidate)
			}
		}
		sortItemsets(next)
		level = next
	}

	itemsets := make([]models.FrequentItemset, 0, len(frequent))
	for _, itemset := range frequent {
		itemsets = append(itemsets, models.FrequentItemset{
			Items:   itemset,
			Support: supports[strings.Join(itemset, itemsetKey)],
		})
	}
	sort.SliceStable(itemsets, func(i, j int) bool {
		return itemsets[i].Support > itemsets[j].Support
	})

	rules := deriveRules(frequent, supports, minLift)

	return itemsets, rules, nil
}

// joinLevel generates k-candidates from sorted (k-1)-itemsets by the
// classic prefix join.
func joinLevel(level [][]string) [][]string {
	var candidates [][]string
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			a, b := level[i], level[j]
			k := len(a)
			if !equalPrefix(a, b, k-1) {
				continue
			}
			candidate := make([]string, 0, k+1)
			candidate = append(candidate, a...)
			if b[k-1] < a[k-1] {
				candidate = append(candidate[:k-1], b[k-1], a[k-1])
			} else {
				candidate = append(candidate, b[k-1])
			}
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

// equalPrefix reports whether a and b share their first n items.
func equalPrefix(a, b []string, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// containsAll reports whether the basket set contains every item.
func containsAll(set map[string]struct{}, items []string) bool {
	for _, item := range items {
		if _, ok := set[item]; !ok {
			return false
		}
	}
	return true
}

// sortItemsets orders itemsets lexicographically for the prefix join.
func sortItemsets(itemsets [][]string) {
	sort.Slice(itemsets, func(i, j int) bool {
		return strings.Join(itemsets[i], itemsetKey) < strings.Join(itemsets[j], itemsetKey)
	})
}

// deriveRules enumerates every non-empty proper subset of each frequent
// itemset as an antecedent, with the complement as consequent, keeping
// rules whose lift clears the threshold.
func deriveRules(frequent [][]string, supports map[string]float64, minLift float64) []models.AssociationRule {
	rules := make([]models.AssociationRule, 0)
	for _, itemset := range frequent {
		k := len(itemset)
		if k < 2 {
			continue
		}
		itemsetSupport := supports[strings.Join(itemset, itemsetKey)]

		// Masks 1..2^k-2 enumerate non-empty proper subsets.
		for mask := 1; mask < (1<<k)-1; mask++ {
			antecedents := make([]string, 0, k)
			consequents := make([]string, 0, k)
			for bit := 0; bit < k; bit++ {
				if mask&(1<<bit) != 0 {
					antecedents = append(antecedents, itemset[bit])
				} else {
					consequents = append(consequents, itemset[bit])
				}
			}

			anteSupport := supports[strings.Join(antecedents, itemsetKey)]
			consSupport := supports[strings.Join(consequents, itemsetKey)]
			if anteSupport == 0 || consSupport == 0 {
				continue
			}

			confidence := itemsetSupport / anteSupport
			lift := confidence / consSupport
			if lift < minLift {
				continue
			}

			rules = append(rules, models.AssociationRule{
				Antecedents: antecedents,
				Consequents: consequents,
				Support:     itemsetSupport,
				Confidence:  confidence,
				Lift:        lift,
			})
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Lift > rules[j].Lift
	})
	return rules
}
