package report

import "fmt"

const (
	// EntityLink prefixes hyperlinks to a simulation entity.
	EntityLink = "#entity:"
	// TooltipLink prefixes hyperlinks that carry tooltip text.
	TooltipLink = "#tooltip:"
)

// Describer is the subset of a simulation entity that report text needs.
type Describer interface {
	ID() int
	ShortName() string
	OwnerName() string
	// OwnerColour is a hex colour string such as "#c04040".
	OwnerColour() string
}

// Roll is a target number with an explanation of how it was reached.
type Roll interface {
	ValueAsString() string
	Desc() string
}

// AddWithTooltip appends data wrapped in tooltip link markup as one opaque value.
func (e *Entry) AddWithTooltip(data, tooltip string) {
	e.values = append(e.values, Value{payload: TooltipMarkup(data, tooltip)})
}

// AddTargetRoll appends the roll value with its description as a tooltip.
func (e *Entry) AddTargetRoll(r Roll) {
	e.AddWithTooltip(r.ValueAsString(), r.Desc())
}

// AddDesc appends the entity name and its owner's name, both sensitive, and
// points the sprite marker at the entity.
func (e *Entry) AddDesc(d Describer) {
	if d == nil {
		return
	}
	e.SpriteMarker = SpriteMarkup(d.ID())
	e.Add(EntityMarkup(d.ID(), d.ShortName()))
	e.Add(fmt.Sprintf("<B><font color='%s'>%s</font></B>", d.OwnerColour(), d.OwnerName()))
}

// TooltipMarkup renders the composite value used by AddWithTooltip.
func TooltipMarkup(data, tooltip string) string {
	return fmt.Sprintf("<font color='0xffffff'><a href='%s%s'>%s</a></font>", TooltipLink, tooltip, data)
}

// EntityMarkup renders a hyperlink to entity id labelled with name.
func EntityMarkup(id int, name string) string {
	return fmt.Sprintf("<font color='0xffffff'><a href=\"%s%d\">%s</a></font>", EntityLink, id, name)
}

// SpriteMarkup renders the sprite placeholder for entity id.
func SpriteMarkup(id int) string {
	return fmt.Sprintf("<span id='%d'></span>", id)
}
