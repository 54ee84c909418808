package operation

import (
	"strings"

	"go-image-editor/pkg/models"

	"github.com/arbovm/levenshtein"
)

// Canonical operation names
const (
	NameBrighten = "brighten"
	NameContrast = "contrast"
	NameBlur     = "blur"
	NameKernel   = "kernel"
	NameSobelX   = "sobel_x"
	NameSobelY   = "sobel_y"
	NameEdges    = "edges"
)

// maxSuggestionDistance is the largest edit distance still offered as a suggestion
const maxSuggestionDistance = 3

var catalog = []models.OperationInfo{
	{
		Name:        NameBrighten,
		Parameters:  []string{"factor"},
		Description: "Multiply every sample by factor",
	},
	{
		Name:        NameContrast,
		Aliases:     []string{"adjust_contrast"},
		Parameters:  []string{"factor", "mid"},
		Description: "Move every sample away from mid by factor",
	},
	{
		Name:        NameBlur,
		Parameters:  []string{"kernel_size"},
		Description: "Box blur over a kernel_size square; borders darken",
	},
	{
		Name:        NameKernel,
		Aliases:     []string{"apply_kernel"},
		Parameters:  []string{"kernel"},
		Description: "Correlate with a square odd-sided kernel, no normalization",
	},
	{
		Name:        NameSobelX,
		Aliases:     []string{"edge_x"},
		Description: "Sobel response along the x axis",
	},
	{
		Name:        NameSobelY,
		Aliases:     []string{"edge_y"},
		Description: "Sobel response along the y axis",
	},
	{
		Name:        NameEdges,
		Aliases:     []string{"detect_edges", "sobel", "edge_xy"},
		Parameters:  []string{"kernel", "kernel_y"},
		Description: "Gradient magnitude of two kernel responses, Sobel by default",
	},
}

var canonical = func() map[string]string {
	m := make(map[string]string)
	for _, info := range catalog {
		m[info.Name] = info.Name
		for _, alias := range info.Aliases {
			m[alias] = info.Name
		}
	}
	return m
}()

// Canonical resolves a name or alias, ignoring case and surrounding space
func Canonical(name string) (string, bool) {
	n, ok := canonical[normalize(name)]
	return n, ok
}

// Names returns the canonical operation names
func Names() []string {
	names := make([]string, len(catalog))
	for i, info := range catalog {
		names[i] = info.Name
	}
	return names
}

// Catalog describes every supported operation
func Catalog() []models.OperationInfo {
	out := make([]models.OperationInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Suggest returns the known name or alias closest to name, or "" when
// nothing is within a small edit distance
func Suggest(name string) string {
	name = normalize(name)
	if name == "" {
		return ""
	}

	best, bestDist := "", maxSuggestionDistance+1
	for _, info := range catalog {
		for _, candidate := range append([]string{info.Name}, info.Aliases...) {
			if d := levenshtein.Distance(name, candidate); d < bestDist {
				best, bestDist = candidate, d
			}
		}
	}
	return best
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
