// internal/method/instructions.go
//
// Fixed per-category instruction texts. These follow site convention and
// are expected verbatim by the crews reading the methodology, so keep
// edits deliberate.

package method

import (
	"fmt"
	"regexp"
	"strings"
)

// Instructions expands the standard instruction list for a stage. The
// level short name prefixes the headline for every category except
// footings, which are level-independent groundwork.
func Instructions(cat Category, zoneName string, count int, levelShort string) []string {
	level := ""
	if levelShort != "" {
		level = levelShort + " "
	}

	switch cat {
	case CategoryFootings:
		return []string{
			fmt.Sprintf("Install all %d footings/foundations in %s", count, zoneName),
			"Verify ground preparation and excavation complete",
			"Check levels and alignment before placement",
			"Allow concrete to cure before loading with columns",
		}
	case CategoryColumns:
		return []string{
			fmt.Sprintf("Erect all %d %scolumns in %s", count, level, zoneName),
			"Progress bay by bay from one end to the other",
			"Columns to be plumbed, aligned, and snug tightened",
			"Temporary bracing to be installed as required for stability",
		}
	case CategoryBeams:
		return []string{
			fmt.Sprintf("Install all %d %sbeams in %s", count, level, zoneName),
			"Install primary beams first, then secondary beams",
			"Progress bay by bay following column installation",
			"Snug tighten all bolts",
		}
	case CategoryBracing:
		return []string{
			fmt.Sprintf("Install all %d %sbracing members in %s", count, level, zoneName),
			"Install wall struts, headers and cross bracing as per drawings",
			"Tension bracing where applicable",
			"Snug tighten all bolts",
		}
	case CategorySlabs:
		return []string{
			fmt.Sprintf("Install all %d %sslab/floor elements in %s", count, level, zoneName),
			"Ensure all supporting columns and beams are complete and tightened",
			"Verify structure stability before slab installation",
			"Install in sequence following structural drawings",
		}
	case CategoryWalls:
		return []string{
			fmt.Sprintf("Install all %d %swall elements in %s", count, level, zoneName),
			"Ensure supporting structure is complete",
			"Install after primary frame is stable",
		}
	case CategoryStairs:
		return []string{
			fmt.Sprintf("Install all %d %sstair elements in %s", count, level, zoneName),
			"Verify supporting structure is complete and stable",
			"Install temporary safety barriers as required",
		}
	case CategoryRailings:
		return []string{
			fmt.Sprintf("Install all %d %srailing elements in %s", count, level, zoneName),
			"Install after associated stairs/floors are complete",
			"Verify all connections and fixings secure",
		}
	}
	return nil
}

// SequenceInstructions expands the bay-by-bay texts used for
// user-declared sequences, where work marches across the primary tags.
func SequenceInstructions(cat Category, gridRange string, count int, primaryStart, primaryEnd string) []string {
	switch cat {
	case CategoryColumns:
		return []string{
			fmt.Sprintf("Erect all %d columns in %s", count, gridRange),
			fmt.Sprintf("Columns to be installed bay by bay from %s-%s through to %s-%s",
				primaryStart, letterAfter(primaryStart), letterBefore(primaryEnd), primaryEnd),
			"Columns to be plumbed, aligned, and snug tightened",
			"Temporary bracing to be installed as required to maintain stability",
		}
	case CategoryBeams:
		return []string{
			fmt.Sprintf("Install all %d beams between grids in %s", count, gridRange),
			fmt.Sprintf("Install beams in each bay %s-%s through %s-%s",
				primaryStart, letterAfter(primaryStart), letterBefore(primaryEnd), primaryEnd),
			"Install wall struts, headers and cross bracing as per drawings",
			"Snug tighten all bolts and tension bracing where applicable",
		}
	}
	return []string{fmt.Sprintf("Install %d %s elements in %s", count, cat, gridRange)}
}

var levelDigits = regexp.MustCompile(`\d+`)

// ShortLevelName compresses a storey name for stage titles: "Ground
// Floor" becomes L1, "Mezzanine" becomes Mezz, unrecognized names keep
// their first digit run or get truncated.
func ShortLevelName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "ground"), lower == "l1", lower == "level 1", lower == "level1", lower == "gf":
		return "L1"
	case strings.Contains(lower, "mezz"):
		return "Mezz"
	case strings.Contains(lower, "roof"):
		return "Roof"
	case strings.Contains(lower, "level 2"), strings.Contains(lower, "l2"):
		return "L2"
	case strings.Contains(lower, "level 3"), strings.Contains(lower, "l3"):
		return "L3"
	}
	if digits := levelDigits.FindString(name); digits != "" {
		return "L" + digits
	}
	if runes := []rune(name); len(runes) > 10 {
		return string(runes[:10])
	}
	return name
}

// letterAfter and letterBefore step a tag's leading letter for bay
// labels. They do not skip I/O; bay labels follow the drawing's own
// lettering.
func letterAfter(tag string) string {
	if tag == "" {
		return ""
	}
	return string(tag[0] + 1)
}

func letterBefore(tag string) string {
	if tag == "" {
		return ""
	}
	return string(tag[0] - 1)
}
