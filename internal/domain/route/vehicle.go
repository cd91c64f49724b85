package route

import "strings"

// VehicleIcon names the dashboard icon drawn for a vehicle type.
type VehicleIcon string

const (
	IconBus VehicleIcon = "bus"
	IconVan VehicleIcon = "van"
	IconSUV VehicleIcon = "suv"
	IconCar VehicleIcon = "car"
)

var vehicleIconKeywords = []struct {
	icon     VehicleIcon
	keywords []string
}{
	{IconBus, []string{"bus"}},
	{IconVan, []string{"van", "tempo", "traveller"}},
	{IconSUV, []string{"suv", "innova"}},
}

// IconFor picks an icon by keyword; anything unrecognised is a car.
func IconFor(vehicleType string) VehicleIcon {
	lower := strings.ToLower(vehicleType)
	for _, entry := range vehicleIconKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.icon
			}
		}
	}
	return IconCar
}
