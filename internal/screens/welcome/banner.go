package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██╗   ██╗ █████╗ ███╗   ██╗██╗  ██╗ ██████╗ ███████╗██╗  ██╗
 ██╔════╝ ╚██╗ ██╔╝██╔══██╗████╗  ██║██║ ██╔╝██╔═══██╗██╔════╝██║  ██║
 ██║  ███╗ ╚████╔╝ ███████║██╔██╗ ██║█████╔╝ ██║   ██║███████╗███████║
 ██║   ██║  ╚██╔╝  ██╔══██║██║╚██╗██║██╔═██╗ ██║   ██║╚════██║██╔══██║
 ╚██████╔╝   ██║   ██║  ██║██║ ╚████║██║  ██╗╚██████╔╝███████║██║  ██║
  ╚═════╝    ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝`

const bannerCompact = "G Y A N K O S H"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 72

// RenderBanner returns the GYANKOSH banner styled in the primary color.
// Uses a compact fallback for terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
