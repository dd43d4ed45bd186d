// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package resources

import "fmt"

// monitorInterval is the health-check cadence for managed services.
const monitorInterval = "5s"

// InitService puts an init-managed service under cluster control, cloned
// so the manager runs one instance per eligible node.
type InitService struct {
	ServiceName     string
	InitServiceName string
}

// NewInitService constructs an InitService descriptor.
func NewInitService(serviceName, initServiceName string) InitService {
	return InitService{ServiceName: serviceName, InitServiceName: initServiceName}
}

// Configure implements Descriptor.
func (i InitService) Configure(s *Set) error {
	resKey := fmt.Sprintf("res_%s_%s", keyName(i.ServiceName), keyName(i.InitServiceName))

	s.AddPrimitive(Primitive{
		Key:   resKey,
		Agent: fmt.Sprintf("lsb:%s", i.InitServiceName),
		Ops:   []string{fmt.Sprintf("monitor interval=%q", monitorInterval)},
	})
	s.AddInitService(i.InitServiceName)
	s.AddClone(Clone{
		Key:    fmt.Sprintf("cl_%s", resKey),
		Target: resKey,
	})
	return nil
}
