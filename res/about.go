// Package res holds static text resources for the desktop player.
package res

// AboutContent contains the Markdown content for the About dialog.
const AboutContent = `An ambient music player with audio-reactive visuals, built with Go and Fyne.

**Features:**
- Streams albums from the catalog, or plays MP3 and WAV from a local folder
- Seven generative visualizer styles, one theme per album
- Queue with keyboard control (space, arrows)
- Remembers your volume and visualizer between sessions
`
