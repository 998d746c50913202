// Package tui provides the terminal interface for watching and steering a
// pixel morph: a braille-canvas renderer shared by two Bubble Tea programs,
// "play" (watch cells settle into their assigned destinations) and "draw"
// (paint strokes while a background solver keeps refining the assignment).
//
// # Play keybindings
//
//	Space  - Pause/Resume
//	R      - Restart current direction
//	V      - Reverse direction
//	T      - Cycle color theme
//	G      - Toggle GIF recording
//	?      - Toggle help overlay
//	Q      - Quit
//
// # Draw keybindings
//
//	Arrows - Move the paint cursor
//	Space  - Paint the current stroke at the cursor
//	Tab    - Cycle stroke ID
//	Q      - Quit (cancels the running solve session)
package tui
