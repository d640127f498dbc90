package discovery

// SelectionPolicy controls which adapters are eligible for selection.
// It is built once from the instance configuration and never changes afterwards.
type SelectionPolicy struct {

	// Restricts selection to the WARP software adapter
	ForceWARP bool

	// Permits selecting the WARP software adapter when WARP was not explicitly requested
	AllowSoftwareRendering bool

	// When non-zero, the first discrete adapter from this vendor wins immediately
	PreferredVendorID uint32
}

// Skips reports whether the policy excludes the specified adapter from selection
func (p SelectionPolicy) Skips(adapter *AdapterDescriptor) bool {
	isWARP := adapter.IsSoftware()
	if p.ForceWARP {
		return !isWARP
	}

	return isWARP && !p.AllowSoftwareRendering
}

// The running results of the selection scan
type selection struct {
	firstSelected  *AdapterDescriptor
	bestIntegrated *AdapterDescriptor
	bestDiscrete   *AdapterDescriptor
}

// Folds one candidate into the running results, reporting whether the scan should stop
func (s selection) fold(candidate *AdapterDescriptor, policy SelectionPolicy) (selection, bool) {
	if policy.Skips(candidate) {
		return s, false
	}

	if s.firstSelected == nil {
		s.firstSelected = candidate
	}

	if !candidate.IsDiscrete() {
		s.bestIntegrated = candidate
		return s, false
	}

	// A discrete adapter from the preferred vendor wins outright and ends the scan
	if policy.PreferredVendorID != 0 && candidate.VendorID == policy.PreferredVendorID {
		s.bestDiscrete = candidate
		return s, true
	}

	if s.bestDiscrete == nil || candidate.DedicatedVideoMemory > s.bestDiscrete.DedicatedVideoMemory {
		s.bestDiscrete = candidate
	}

	return s, false
}

// Resolves the running results for the specified preference
func (s selection) result(preference Preference) *AdapterDescriptor {
	var chosen *AdapterDescriptor
	switch preference {
	case PreferenceMinimumPower:
		chosen = s.bestIntegrated
	case PreferenceHighPerformance:
		chosen = s.bestDiscrete
	}

	if chosen == nil {
		return s.firstSelected
	}

	return chosen
}

// SelectAdapter ranks the candidates according to the preference and policy.
// It returns nil only when the policy excluded every candidate (or there were none).
// The returned pointer refers to an element of candidates.
func SelectAdapter(candidates []AdapterDescriptor, preference Preference, policy SelectionPolicy) *AdapterDescriptor {
	state := selection{}
	for index := range candidates {
		var done bool
		if state, done = state.fold(&candidates[index], policy); done {
			break
		}
	}

	return state.result(preference)
}
