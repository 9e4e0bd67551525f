package report

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
)

// Coverage is line-level coverage extracted from the JaCoCo XML report.
type Coverage struct {
	Covered int
	Missed  int
	Total   int
	Pct     float64
}

// LoadJaCoCo extracts the LINE counter from the report at path. The
// report-level totals (counters that are direct children of <report>)
// are preferred; when absent, the first LINE counter anywhere in the
// document is used. A missing or unparseable report yields (nil, nil).
func LoadJaCoCo(path string) (*Coverage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	// The report carries a DOCTYPE for a DTD that is not resolvable
	// offline; walk tokens instead of unmarshalling the whole document.
	dec := xml.NewDecoder(f)
	var rootLine, anyLine *Coverage
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil
		}
		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			if el.Name.Local != "counter" {
				continue
			}
			cov, isLine := counterFromAttrs(el.Attr)
			if !isLine {
				continue
			}
			if anyLine == nil {
				anyLine = cov
			}
			// depth 2 = direct child of the root <report> element.
			if depth == 2 && rootLine == nil {
				rootLine = cov
			}
		case xml.EndElement:
			depth--
		}
	}

	if rootLine != nil {
		return rootLine, nil
	}
	return anyLine, nil
}

func counterFromAttrs(attrs []xml.Attr) (*Coverage, bool) {
	var typ string
	var covered, missed int
	for _, a := range attrs {
		switch a.Name.Local {
		case "type":
			typ = a.Value
		case "covered":
			covered, _ = strconv.Atoi(a.Value)
		case "missed":
			missed, _ = strconv.Atoi(a.Value)
		}
	}
	if typ != "LINE" {
		return nil, false
	}
	total := covered + missed
	return &Coverage{
		Covered: covered,
		Missed:  missed,
		Total:   total,
		Pct:     percent(float64(covered), float64(total)),
	}, true
}
