package services

import (
	"fmt"
	"sort"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
	"github.com/craftplan/craftplan-go/pkg/utils"
)

// RequirementAssembler combines the optimized flat quantities with the
// propagation outcome into final per-material requirement records, and
// produces the grouped display views.
type RequirementAssembler struct{}

// NewRequirementAssembler creates an assembler
func NewRequirementAssembler() *RequirementAssembler {
	return &RequirementAssembler{}
}

// Assemble produces one requirement per flat row, sorted by step then
// tier. BaseRequired comes from the optimized flat quantity; the
// propagated remaining is capped at it, because optimization may have
// reduced the base below what un-optimized propagation assumed. From
// there Have = BaseRequired - Remaining, so conservation holds by
// construction.
func (a *RequirementAssembler) Assemble(
	flat []*materials.FlatMaterial,
	propagation *PropagationResult,
) []*materials.Requirement {
	contributionsByChild := aggregateContributions(propagation.Contributions)

	requirements := make([]*materials.Requirement, 0, len(flat))
	for _, row := range flat {
		key := row.Key()

		baseRequired := row.Quantity
		var propagatedRemaining int64
		if need, ok := propagation.Needs[key]; ok {
			propagatedRemaining = need.Remaining
		}
		// A missing needs entry means every occurrence sat inside a
		// fully covered subtree: nothing remains
		remaining := utils.MinInt64(propagatedRemaining, baseRequired)

		requirements = append(requirements, &materials.Requirement{
			FlatMaterial:        *row,
			BaseRequired:        baseRequired,
			Remaining:           remaining,
			Have:                baseRequired - remaining,
			IsComplete:          remaining == 0,
			ParentContributions: contributionsByChild[key],
		})
	}

	sort.SliceStable(requirements, func(i, j int) bool {
		if requirements[i].Step != requirements[j].Step {
			return requirements[i].Step < requirements[j].Step
		}
		return requirements[i].Tier < requirements[j].Tier
	})

	return requirements
}

// aggregateContributions merges the raw edge set per (child, parent)
// pair, preserving first-seen parent order per child
func aggregateContributions(edges []materials.Contribution) map[catalog.EntityKey][]materials.Contribution {
	type pairKey struct {
		child  catalog.EntityKey
		parent catalog.EntityKey
	}

	byChild := make(map[catalog.EntityKey][]materials.Contribution)
	index := make(map[pairKey]int)

	for _, edge := range edges {
		pk := pairKey{child: edge.ChildKey, parent: edge.ParentKey}
		if i, ok := index[pk]; ok {
			byChild[edge.ChildKey][i].QuantityUsed += edge.QuantityUsed
			byChild[edge.ChildKey][i].Covered += edge.Covered
			continue
		}
		byChild[edge.ChildKey] = append(byChild[edge.ChildKey], edge)
		index[pk] = len(byChild[edge.ChildKey]) - 1
	}

	return byChild
}

// GroupByTier buckets requirements by ascending tier
func (a *RequirementAssembler) GroupByTier(requirements []*materials.Requirement) []*materials.RequirementGroup {
	buckets := make(map[int][]*materials.Requirement)
	tiers := make([]int, 0)
	for _, req := range requirements {
		if _, seen := buckets[req.Tier]; !seen {
			tiers = append(tiers, req.Tier)
		}
		buckets[req.Tier] = append(buckets[req.Tier], req)
	}
	sort.Ints(tiers)

	groups := make([]*materials.RequirementGroup, 0, len(tiers))
	for _, tier := range tiers {
		label := fmt.Sprintf("Tier %d", tier)
		if tier == catalog.TierUntiered {
			label = "Untiered"
		}
		groups = append(groups, materials.NewRequirementGroup(label, buckets[tier]))
	}
	return groups
}

// GroupByStep buckets requirements by ascending step. Step 1 is the
// gathering bucket; deeper steps label as "Step N".
func (a *RequirementAssembler) GroupByStep(requirements []*materials.Requirement) []*materials.RequirementGroup {
	buckets := make(map[int][]*materials.Requirement)
	steps := make([]int, 0)
	for _, req := range requirements {
		if _, seen := buckets[req.Step]; !seen {
			steps = append(steps, req.Step)
		}
		buckets[req.Step] = append(buckets[req.Step], req)
	}
	sort.Ints(steps)

	groups := make([]*materials.RequirementGroup, 0, len(steps))
	for _, step := range steps {
		groups = append(groups, materials.NewRequirementGroup(stepLabel(step), buckets[step]))
	}
	return groups
}

// GroupByProfession buckets requirements alphabetically by profession
func (a *RequirementAssembler) GroupByProfession(requirements []*materials.Requirement) []*materials.RequirementGroup {
	buckets := make(map[string][]*materials.Requirement)
	professions := make([]string, 0)
	for _, req := range requirements {
		if _, seen := buckets[req.Profession]; !seen {
			professions = append(professions, req.Profession)
		}
		buckets[req.Profession] = append(buckets[req.Profession], req)
	}
	sort.Strings(professions)

	groups := make([]*materials.RequirementGroup, 0, len(professions))
	for _, profession := range professions {
		groups = append(groups, materials.NewRequirementGroup(profession, buckets[profession]))
	}
	return groups
}

// GroupByStepProfession nests profession buckets inside ascending step
// buckets, the combined view
func (a *RequirementAssembler) GroupByStepProfession(requirements []*materials.Requirement) []*materials.StepProfessionGroup {
	byStep := make(map[int][]*materials.Requirement)
	steps := make([]int, 0)
	for _, req := range requirements {
		if _, seen := byStep[req.Step]; !seen {
			steps = append(steps, req.Step)
		}
		byStep[req.Step] = append(byStep[req.Step], req)
	}
	sort.Ints(steps)

	groups := make([]*materials.StepProfessionGroup, 0, len(steps))
	for _, step := range steps {
		groups = append(groups, &materials.StepProfessionGroup{
			Label:       stepLabel(step),
			Step:        step,
			Professions: a.GroupByProfession(byStep[step]),
		})
	}
	return groups
}

func stepLabel(step int) string {
	if step == 1 {
		return ProfessionGathering
	}
	return fmt.Sprintf("Step %d", step)
}
