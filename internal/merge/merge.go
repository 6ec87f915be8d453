// Package merge combines profile fragments from several uploads into one profile.
//
// Every field of types.Profile has an explicit rule:
//   - personalInfo merges key by key; each key takes the later non-empty value.
//   - professionalSummaryBase takes the later non-empty value.
//   - list fields accumulate. Batch removes exact duplicates and regroups skill
//     items by category; Incremental concatenates and keeps duplicates, since
//     repeated mentions from separate uploads may carry distinct nuance.
//
// Merging never fails; malformed uploads are rejected by package validation first.
package merge

import (
	"slices"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Batch folds the fragments of a single upload left to right in upload order.
// Nil fragments are skipped. Fragments are never modified, and list fields of
// the result are freshly allocated.
func Batch(fragments ...*types.Profile) *types.Profile {
	acc := &types.Profile{}
	for _, f := range fragments {
		if f == nil {
			continue
		}
		acc.PersonalInfo = mergePersonalInfo(acc.PersonalInfo, f.PersonalInfo)
		acc.ProfessionalSummaryBase = lastNonEmpty(acc.ProfessionalSummaryBase, f.ProfessionalSummaryBase)
		acc.Experience = unionFunc(acc.Experience, f.Experience, experienceEqual)
		acc.Education = union(acc.Education, f.Education)
		acc.Skills = unionSkills(acc.Skills, f.Skills)
		acc.Projects = unionFunc(acc.Projects, f.Projects, projectEqual)
		acc.Certifications = union(acc.Certifications, f.Certifications)
		acc.Languages = union(acc.Languages, f.Languages)
	}
	return acc
}

// Incremental merges the result of a new upload batch into the session's
// existing profile. An empty incoming profile returns existing unchanged.
// Values the existing profile lacks are adopted from incoming by reference.
func Incremental(existing, incoming *types.Profile) *types.Profile {
	if incoming.IsEmpty() {
		return existing
	}
	if existing == nil {
		return incoming
	}

	out := *existing
	out.PersonalInfo = mergePersonalInfo(existing.PersonalInfo, incoming.PersonalInfo)
	out.ProfessionalSummaryBase = lastNonEmpty(existing.ProfessionalSummaryBase, incoming.ProfessionalSummaryBase)
	out.Experience = concat(existing.Experience, incoming.Experience)
	out.Education = concat(existing.Education, incoming.Education)
	out.Skills = concat(existing.Skills, incoming.Skills)
	out.Projects = concat(existing.Projects, incoming.Projects)
	out.Certifications = concat(existing.Certifications, incoming.Certifications)
	out.Languages = concat(existing.Languages, incoming.Languages)
	return &out
}

func mergePersonalInfo(base, next *types.PersonalInfo) *types.PersonalInfo {
	if next == nil {
		return base
	}
	if base == nil {
		return next
	}
	return &types.PersonalInfo{
		FullName: lastNonEmpty(base.FullName, next.FullName),
		Email:    lastNonEmpty(base.Email, next.Email),
		Phone:    lastNonEmpty(base.Phone, next.Phone),
		LinkedIn: lastNonEmpty(base.LinkedIn, next.LinkedIn),
		Location: lastNonEmpty(base.Location, next.Location),
	}
}

func lastNonEmpty(base, next string) string {
	if next != "" {
		return next
	}
	return base
}

// concat appends next to base without touching either backing array.
func concat[T any](base, next []T) []T {
	if next == nil {
		return base
	}
	if base == nil {
		return next
	}
	return slices.Concat(base, next)
}

func union[T comparable](base, next []T) []T {
	return unionFunc(base, next, func(a, b T) bool { return a == b })
}

// unionFunc returns base followed by next with duplicates removed, keeping the
// first appearance. It returns nil only when both inputs are nil.
func unionFunc[T any](base, next []T, equal func(a, b T) bool) []T {
	if base == nil && next == nil {
		return nil
	}
	out := make([]T, 0, len(base)+len(next))
	for _, list := range [][]T{base, next} {
		for _, item := range list {
			if !slices.ContainsFunc(out, func(seen T) bool { return equal(seen, item) }) {
				out = append(out, item)
			}
		}
	}
	return out
}

// unionSkills merges skill groups sharing a category into one group whose
// items are the de-duplicated union, in order of first appearance.
func unionSkills(base, next []types.SkillGroup) []types.SkillGroup {
	if base == nil && next == nil {
		return nil
	}
	out := make([]types.SkillGroup, 0, len(base)+len(next))
	index := make(map[string]int, len(base)+len(next))
	for _, list := range [][]types.SkillGroup{base, next} {
		for _, group := range list {
			if i, ok := index[group.Category]; ok {
				out[i].Items = union(out[i].Items, group.Items)
				continue
			}
			index[group.Category] = len(out)
			out = append(out, types.SkillGroup{
				Category: group.Category,
				Items:    union(nil, group.Items),
			})
		}
	}
	return out
}

func experienceEqual(a, b types.Experience) bool {
	return a.Role == b.Role &&
		a.Company == b.Company &&
		a.Period == b.Period &&
		slices.Equal(a.Description, b.Description)
}

func projectEqual(a, b types.Project) bool {
	return a.Name == b.Name &&
		a.Description == b.Description &&
		a.Link == b.Link &&
		slices.Equal(a.Technologies, b.Technologies)
}
