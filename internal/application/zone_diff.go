package application

import "strings"

// Zone is the shape shared by office and parking zones for diffing.
type Zone struct {
	ID       string
	Name     string
	Capacity int
}

// ZoneDiff is the write plan that turns a stored zone set into a desired one.
type ZoneDiff struct {
	Delete []Zone
	Update []Zone
	Create []Zone
}

// DiffZones matches zones by trimmed name. Stored zones missing from desired
// are deleted, zones present in both keep their id and take the desired
// capacity, and the rest of desired is created with newID. A renamed zone is
// a delete plus a create.
func DiffZones(existing []Zone, desired []ZoneInput, newID func() string) ZoneDiff {
	want := make(map[string]ZoneInput, len(desired))
	for _, zone := range desired {
		want[strings.TrimSpace(zone.Name)] = zone
	}

	var diff ZoneDiff
	have := make(map[string]struct{}, len(existing))
	for _, zone := range existing {
		name := strings.TrimSpace(zone.Name)
		have[name] = struct{}{}
		input, ok := want[name]
		if !ok {
			diff.Delete = append(diff.Delete, zone)
			continue
		}
		diff.Update = append(diff.Update, Zone{ID: zone.ID, Name: name, Capacity: input.Capacity})
	}

	for _, zone := range desired {
		name := strings.TrimSpace(zone.Name)
		if _, ok := have[name]; ok {
			continue
		}
		have[name] = struct{}{}
		diff.Create = append(diff.Create, Zone{ID: newID(), Name: name, Capacity: zone.Capacity})
	}
	return diff
}

// Result lists the zones that remain after the diff is applied: updated
// zones in stored order followed by created zones.
func (d ZoneDiff) Result() []Zone {
	out := make([]Zone, 0, len(d.Update)+len(d.Create))
	out = append(out, d.Update...)
	out = append(out, d.Create...)
	return out
}

func zoneIDs(zones []Zone) []string {
	if len(zones) == 0 {
		return nil
	}
	ids := make([]string, len(zones))
	for i, zone := range zones {
		ids[i] = zone.ID
	}
	return ids
}

func officeZonesToZones(zones []OfficeZone) []Zone {
	out := make([]Zone, len(zones))
	for i, z := range zones {
		out[i] = Zone{ID: z.ID, Name: z.Name, Capacity: z.Desks}
	}
	return out
}

func parkingZonesToZones(zones []ParkingZone) []Zone {
	out := make([]Zone, len(zones))
	for i, z := range zones {
		out[i] = Zone{ID: z.ID, Name: z.Name, Capacity: z.Spaces}
	}
	return out
}

func zonesToOfficeZones(zones []Zone) []OfficeZone {
	if len(zones) == 0 {
		return nil
	}
	out := make([]OfficeZone, len(zones))
	for i, z := range zones {
		out[i] = OfficeZone{ID: z.ID, Name: z.Name, Desks: z.Capacity}
	}
	return out
}

func zonesToParkingZones(zones []Zone) []ParkingZone {
	if len(zones) == 0 {
		return nil
	}
	out := make([]ParkingZone, len(zones))
	for i, z := range zones {
		out[i] = ParkingZone{ID: z.ID, Name: z.Name, Spaces: z.Capacity}
	}
	return out
}
