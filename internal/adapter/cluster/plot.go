package cluster

import "semsearch/internal/domain"

const (
	plotTitle  = "Sentence clusters"
	plotXLabel = "Component 1"
	plotYLabel = "Component 2"
)

// BuildPlot assembles the scatter plot: one point per text, coloured
// by cluster label and labelled with the text.
func BuildPlot(texts []string, labels []int, coords [][2]float64, clusters int) domain.ScatterPlot {
	points := make([]domain.PlotPoint, len(texts))
	for i, text := range texts {
		points[i] = domain.PlotPoint{
			X:     coords[i][0],
			Y:     coords[i][1],
			Color: labels[i],
			Label: text,
		}
	}
	return domain.ScatterPlot{
		Title:    plotTitle,
		XLabel:   plotXLabel,
		YLabel:   plotYLabel,
		Clusters: clusters,
		Points:   points,
	}
}

// Assignments pairs every text with its label and projected coordinates.
func Assignments(texts []string, labels []int, coords [][2]float64) []domain.ClusterAssignment {
	out := make([]domain.ClusterAssignment, len(texts))
	for i, text := range texts {
		out[i] = domain.ClusterAssignment{
			Text:  text,
			Label: labels[i],
			X:     coords[i][0],
			Y:     coords[i][1],
		}
	}
	return out
}
