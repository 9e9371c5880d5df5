package domain

// VehicleClass represents the service tier of a vehicle.
type VehicleClass string

const (
	VehicleClassBusiness  VehicleClass = "BUSINESS"
	VehicleClassExecutive VehicleClass = "EXECUTIVE"
	VehicleClassLuxury    VehicleClass = "LUXURY"
	VehicleClassSUV       VehicleClass = "SUV"
	VehicleClassVan       VehicleClass = "VAN"
)

// ValidVehicleClass reports whether class is a known service tier.
func ValidVehicleClass(class VehicleClass) bool {
	switch class {
	case VehicleClassBusiness, VehicleClassExecutive, VehicleClassLuxury,
		VehicleClassSUV, VehicleClassVan:
		return true
	}
	return false
}

// Vehicle represents a vehicle owned by a driver.
type Vehicle struct {
	ID       string
	DriverID string
	Class    VehicleClass
	Make     string
	Model    string
	PlateNo  string
	Seats    int
	IsActive bool
}
