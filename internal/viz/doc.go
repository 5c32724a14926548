// Package viz renders release profiles in the terminal.
//
//   - [PlotSeries]: asciigraph line chart of a 2D profile
//   - [Canvas]: Braille-based pixel canvas (2x4 dots per cell)
//   - [Camera] and [Render3D]: perspective projection of 3D point paths
//   - [Viridis], [Plasma]: colour scales for per-point colouring
//   - lipgloss styles and themes shared by the interactive UI
package viz
