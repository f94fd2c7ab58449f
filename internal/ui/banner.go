package ui

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const bannerText = `
 ███████╗██╗   ██╗███████╗ ██████╗ ██████╗ ███╗   ██╗███████╗
 ██╔════╝╚██╗ ██╔╝██╔════╝██╔════╝██╔═══██╗████╗  ██║██╔════╝
 ███████╗ ╚████╔╝ ███████╗██║     ██║   ██║██╔██╗ ██║█████╗
 ╚════██║  ╚██╔╝  ╚════██║██║     ██║   ██║██║╚██╗██║██╔══╝
 ███████║   ██║   ███████║╚██████╗╚██████╔╝██║ ╚████║██║
 ╚══════╝   ╚═╝   ╚══════╝ ╚═════╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝
 systems conference deadlines
`

// ColorizeText fades the text between two random colours
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	startColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	endColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	runes := []rune(text)
	half := len(runes) / 2
	if half == 0 {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		b.WriteString(startColor.Fade(0, float32(len(runes)), float32(i%half), endColor).Sprint(string(r)))
	}
	return b.String()
}

// PrintBanner displays the application banner
func PrintBanner(w io.Writer, silence bool) {
	if !silence {
		fmt.Fprintln(w, ColorizeText(bannerText))
	}
}
