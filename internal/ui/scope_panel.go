package ui

// RenderScopePanel puts a bezel around an already rendered scope frame.
func RenderScopePanel(frame string, frameW, frameH int) string {
	return StylePanelBorder.Width(frameW).Height(frameH).Render(frame)
}
