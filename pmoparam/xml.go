package pmoparam

import (
	"strconv"

	"github.com/beevik/etree"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'G', -1, 64)
}

// ToXMLElement renders the definition as a UPnP-style state variable
// descriptor, suitable for embedding in a service description document:
//
//	<stateVariable sendEvents="yes">
//	  <name>Volume</name>
//	  <dataType>float64</dataType>
//	  <defaultValue>0.25</defaultValue>
//	  <allowedValueRange>
//	    <minimum>0</minimum>
//	    <maximum>1</maximum>
//	  </allowedValueRange>
//	</stateVariable>
func (d *Definition) ToXMLElement() *etree.Element {
	elem := etree.NewElement("stateVariable")
	elem.CreateAttr("sendEvents", "yes")

	elem.CreateElement("name").SetText(d.name)
	elem.CreateElement("dataType").SetText("float64")
	elem.CreateElement("defaultValue").SetText(formatFloat(d.defaultValue))

	rng := elem.CreateElement("allowedValueRange")
	rng.CreateElement("minimum").SetText(formatFloat(d.minValue))
	rng.CreateElement("maximum").SetText(formatFloat(d.maxValue))

	return elem
}
