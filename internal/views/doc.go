// package views turns catalog data into terminal output with lipgloss.
//
// Components are plain structs built from typed data: [Card], [Row], [Hero], [Modal], [SearchPanel],
// [Navbar] and the panels. Each has a Render method that takes a [Palette] and an available width and
// returns a string. Nothing here performs I/O or owns a timer; the ui package drives them.
package views
