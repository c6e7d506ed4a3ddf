package fyne

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/res"
)

// showLockedDialog tells the listener why a track cannot be played.
func showLockedDialog(window fyne.Window, track domain.Track, message string) {
	dialog.ShowInformation(track.Title, message, window)
}

// showAboutDialog shows the application description and version.
func showAboutDialog(window fyne.Window, version string) {
	content := widget.NewRichTextFromMarkdown(res.AboutContent)
	content.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustom(fmt.Sprintf("%s %s", AppName, version), "Close", content, window)
	d.Resize(fyne.NewSize(420, 280))
	d.Show()
}
