package source

import (
	"fmt"
	"strings"
)

const noTimestamp = "<no timestamp found>"

// Card is one header keyword rendered for display.
type Card struct {
	Name    string
	Value   string
	Comment string
}

// Description is the header of one FITS HDU plus the shape of its data.
type Description struct {
	Path      string
	HDU       int
	NumHDUs   int
	Bitpix    int
	Axes      []int
	Timestamp string // DATE-OBS with the T separator replaced by a space
	Cards     []Card
}

// Describe reads the header of HDU index of a FITS file.
func Describe(path string, index int) (*Description, error) {
	f, closeFile, err := openFitsFile(path)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	hdus := f.HDUs()
	if index < 0 || index >= len(hdus) {
		return nil, decodeErr(path, "HDU %d out of range (file has %d)", index, len(hdus))
	}
	hdr := hdus[index].Header()

	d := &Description{
		Path:      path,
		HDU:       index,
		NumHDUs:   len(hdus),
		Bitpix:    hdr.Bitpix(),
		Axes:      hdr.Axes(),
		Timestamp: noTimestamp,
	}
	for i := range hdr.Keys() {
		card := hdr.Card(i)
		d.Cards = append(d.Cards, Card{
			Name:    card.Name,
			Value:   fmt.Sprintf("%v", card.Value),
			Comment: card.Comment,
		})
		if card.Name == "DATE-OBS" {
			d.Timestamp = strings.Replace(fmt.Sprintf("%v", card.Value), "T", " ", 1)
		}
	}
	return d, nil
}

// Lines formats the cards one per line, as "NAME: value (comment)".
func (d *Description) Lines() []string {
	lines := make([]string, 0, len(d.Cards))
	for _, card := range d.Cards {
		if card.Comment == "" {
			lines = append(lines, fmt.Sprintf("%8s: %8v", card.Name, card.Value))
		} else {
			lines = append(lines, fmt.Sprintf("%8s: %8v (%s)", card.Name, card.Value, card.Comment))
		}
	}
	return lines
}

// Shape is the data shape as "NAXIS1 x NAXIS2 x ...".
func (d *Description) Shape() string {
	if len(d.Axes) == 0 {
		return "no data"
	}
	parts := make([]string, len(d.Axes))
	for i, n := range d.Axes {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " x ")
}
