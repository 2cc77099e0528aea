package graph

import (
	"fmt"
	"strings"

	"synod/internal/runtime"
)

// GenerateMermaid produces a Mermaid flowchart of the pipeline topology:
// the fan-out analysts, the fan-in merge, the deliberation chain, and
// the gated decision loop with its revise edge back to the trader.
func GenerateMermaid(topo runtime.Topology) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    seed((\"seed\"))\n")

	for _, name := range topo.Analysts {
		safeID := sanitizeMermaidID(name)
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", safeID, name))
		sb.WriteString(fmt.Sprintf("    seed --> %s\n", safeID))
		sb.WriteString(fmt.Sprintf("    %s --> merge\n", safeID))
	}
	sb.WriteString("    merge{{\"fan-in merge\"}}\n")

	prev := "merge"
	for _, name := range topo.Deliberation {
		safeID := sanitizeMermaidID(name)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, name))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, safeID))
		prev = safeID
	}

	trader := sanitizeMermaidID(topo.Trader)
	gate := sanitizeMermaidID(topo.Gate)
	sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", trader, topo.Trader))
	sb.WriteString(fmt.Sprintf("    %s{\"%s\"}\n", gate, topo.Gate))
	sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, trader))
	sb.WriteString(fmt.Sprintf("    %s --> %s\n", trader, gate))
	sb.WriteString(fmt.Sprintf("    %s -- \"accept\" --> outcome((\"outcome\"))\n", gate))
	sb.WriteString(fmt.Sprintf("    %s -. \"revise (max %d)\" .-> %s\n", gate, topo.MaxAttempts, trader))

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
