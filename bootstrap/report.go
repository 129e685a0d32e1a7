package bootstrap

import (
	"fmt"

	"github.com/xlab/tablewriter"
)

// DeviceReport renders the outcome of device selection as a table.
func DeviceReport(candidates []Candidate) string {
	table := tablewriter.CreateTable()
	table.UTF8Box()
	table.AddTitle("PHYSICAL DEVICES")
	table.AddRow("Index", "Name", "API Version", "Verdict")
	table.AddSeparator()

	if len(candidates) == 0 {
		table.AddRow("-", "no devices enumerated", "-", "-")
	}
	for _, candidate := range candidates {
		verdict := "selected"
		if !candidate.Suitable() {
			verdict = candidate.Reason
		}
		name := candidate.Properties.Name
		if name == "" {
			name = "unknown"
		}
		table.AddRow(candidate.Index, name, candidate.Properties.APIVersion.String(), verdict)
	}

	return table.Render()
}

// SwapchainReport renders the negotiated swapchain parameters as a table.
func SwapchainReport(swapchain *SwapchainHandle, support SurfaceSupport) string {
	table := tablewriter.CreateTable()
	table.UTF8Box()
	table.AddTitle("SWAPCHAIN")
	table.AddRow("Image count", swapchain.ImageCount())
	table.AddRow("Image count range", rangeString(support.Capabilities.MinImageCount, support.Capabilities.MaxImageCount))
	table.AddRow("Extent", swapchain.Extent().String())
	table.AddRow("Extent range", support.Capabilities.MinImageExtent.String()+" - "+support.Capabilities.MaxImageExtent.String())
	table.AddRow("Format", int32(swapchain.Format().Format))
	table.AddRow("Color space", int32(swapchain.Format().ColorSpace))
	table.AddRow("Present mode", swapchain.PresentMode().String())
	table.AddRow("Formats offered", len(support.Formats))
	table.AddRow("Present modes offered", len(support.PresentModes))
	return table.Render()
}

func rangeString(min, max uint32) string {
	if max == 0 {
		return fmt.Sprintf("%d - unbounded", min)
	}
	return fmt.Sprintf("%d - %d", min, max)
}
