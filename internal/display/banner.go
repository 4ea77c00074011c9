package display

import (
	"fmt"
	"io"

	"github.com/backmassage/htmlcompressor/internal/term"
)

const banner = ` _     _             _                                                        
| |__ | |_ _ __ ___ | | ___ ___  _ __ ___  _ __  _ __ ___  ___ ___  ___  _ __ 
| '_ \| __| '_ ` + "`" + ` _ \| |/ __/ _ \| '_ ` + "`" + ` _ \| '_ \| '__/ _ \/ __/ __|/ _ \| '__|
| | | | |_| | | | | | | (_| (_) | | | | | | |_) | | |  __/\__ \__ \ (_) | |   
|_| |_|\__|_| |_| |_|_|\___\___/|_| |_| |_| .__/|_|  \___||___/___/\___/|_|   
                                          |_|                                 
`

// PrintBanner writes the ASCII art banner to w, in magenta when colors are
// enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Paint(term.Magenta, banner))
}
