package home

import (
	"strings"

	"cleanly/models"
	"cleanly/services/pricing"
	"cleanly/utils"
)

func trimRequest(req *models.HomeRequest) {
	for _, f := range []*string{
		&req.NickName, &req.Address, &req.City, &req.State, &req.Zipcode, &req.NumBaths,
		&req.KeyPadCode, &req.KeyLocation, &req.TrashLocation, &req.RecyclingLocation,
		&req.CompostLocation, &req.Contact, &req.SpecialNotes, &req.TimeToBeCompleted,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// validateHome checks the fields every stored home must satisfy.
func validateHome(h *models.Home) error {
	if h.Address == "" || h.City == "" || h.State == "" || h.Zipcode == "" {
		return utils.NewValidationError("address, city, state and zipcode are required")
	}
	if h.NumBeds < 1 || h.NumBeds > pricing.MaxBeds {
		return utils.NewValidationError("numBeds must be between 1 and %d", pricing.MaxBeds)
	}
	if _, err := pricing.ParseBaths(h.NumBaths); err != nil {
		return utils.NewValidationError("%s", err.Error())
	}
	if h.CleanersNeeded < 1 {
		return utils.NewValidationError("cleanersNeeded must be at least 1")
	}
	if h.TimeToBeCompleted == "" {
		h.TimeToBeCompleted = models.TimeAnytime
	}
	if !pricing.ValidTimeWindow(h.TimeToBeCompleted) {
		return utils.NewValidationError("unknown time window %q", h.TimeToBeCompleted)
	}
	return nil
}

func setString(dst *string, src *string) bool {
	if src == nil {
		return false
	}
	v := strings.TrimSpace(*src)
	changed := *dst != v
	*dst = v
	return changed
}

// applyUpdate merges a partial update into h and reports whether the postal
// address changed.
func applyUpdate(h *models.Home, req models.HomeUpdateRequest) bool {
	addressChanged := false
	for _, p := range []struct {
		dst *string
		src *string
	}{
		{&h.Address, req.Address}, {&h.City, req.City}, {&h.State, req.State}, {&h.Zipcode, req.Zipcode},
	} {
		if setString(p.dst, p.src) {
			addressChanged = true
		}
	}

	setString(&h.NickName, req.NickName)
	setString(&h.NumBaths, req.NumBaths)
	setString(&h.KeyPadCode, req.KeyPadCode)
	setString(&h.KeyLocation, req.KeyLocation)
	setString(&h.TrashLocation, req.TrashLocation)
	setString(&h.RecyclingLocation, req.RecyclingLocation)
	setString(&h.CompostLocation, req.CompostLocation)
	setString(&h.Contact, req.Contact)
	setString(&h.SpecialNotes, req.SpecialNotes)
	setString(&h.TimeToBeCompleted, req.TimeToBeCompleted)

	if req.NumBeds != nil {
		h.NumBeds = *req.NumBeds
	}
	if req.SheetsProvided != nil {
		h.SheetsProvided = *req.SheetsProvided
	}
	if req.TowelsProvided != nil {
		h.TowelsProvided = *req.TowelsProvided
	}
	if req.CleanersNeeded != nil {
		h.CleanersNeeded = *req.CleanersNeeded
	}
	return addressChanged
}
