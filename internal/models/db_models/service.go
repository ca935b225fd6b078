package db_models

import (
	"fmt"
	"strings"
)

type ServiceType string

const (
	ServiceTypeAdministrative ServiceType = "Administrative"
	ServiceTypeCivil          ServiceType = "Civil"
)

func ParseServiceType(s string) (ServiceType, error) {
	for _, t := range []ServiceType{ServiceTypeAdministrative, ServiceTypeCivil} {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown service type %q", s)
}

// Service is a catalog entry. Deactivated (soft-deleted) rather than removed
// while test requests still reference it.
type Service struct {
	BaseModel
	Name        string      `gorm:"index"`
	Type        ServiceType `gorm:"size:32;index"`
	Description string      `gorm:"type:text"`
	// Price is in VND; the currency has no minor unit.
	Price       int64
	SampleCount int
	Active      bool `gorm:"default:true;index"`
}
