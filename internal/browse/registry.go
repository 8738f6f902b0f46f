package browse

// createViews ensures a view exists for every key, restoring any persisted
// configuration supplied alongside. Keys that already exist keep their view,
// cache and counters; restoring configuration onto the general view is fine,
// replacing its identity is not.
func (s *State) createViews(keys []string, stored map[string]StoredView) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		v, ok := s.views[key]
		if !ok {
			v = newView(key)
			s.views[key] = v
		}
		if sv, ok := stored[key]; ok {
			v.applyStored(sv)
		}
	}
}

// replaceViews rebuilds the registry around exactly the given keys. Every
// non-general view not named is dropped along with its generation counter;
// the general view survives any replacement.
func (s *State) replaceViews(keys []string, stored map[string]StoredView) {
	keep := make(map[string]bool, len(keys)+1)
	keep[s.generalKey] = true
	for _, key := range keys {
		keep[key] = true
	}
	for key := range s.views {
		if !keep[key] {
			delete(s.views, key)
			s.seq.drop(key)
		}
	}
	s.createViews(keys, stored)
}

// renameView moves a view to a new key, carrying cache and counters along.
// Renames that would lose a view are refused: missing source, occupied
// destination, or the general view's identity.
func (s *State) renameView(oldKey, newKey string) {
	if oldKey == newKey || newKey == "" || oldKey == s.generalKey {
		return
	}
	v, ok := s.views[oldKey]
	if !ok {
		return
	}
	if _, taken := s.views[newKey]; taken {
		return
	}
	delete(s.views, oldKey)
	v.Key = newKey
	s.views[newKey] = v
	s.seq.move(oldKey, newKey)
}

// duplicateView copies a view's configuration under a new key. The copy
// starts with an empty cache and generation zero, so it fetches its own
// results. An occupied destination refuses the copy.
func (s *State) duplicateView(srcKey, dstKey string) {
	if dstKey == "" || srcKey == dstKey {
		return
	}
	src, ok := s.views[srcKey]
	if !ok {
		return
	}
	if _, taken := s.views[dstKey]; taken {
		return
	}
	s.views[dstKey] = src.clone(dstKey)
}

// deleteView removes a view and forgets its generation counter. The general
// view cannot be deleted. Deleting the last non-general view recreates a
// fresh default under the same key, so there is always a browsable tab
// besides general.
func (s *State) deleteView(key string) {
	if key == s.generalKey {
		return
	}
	if _, ok := s.views[key]; !ok {
		return
	}
	delete(s.views, key)
	s.seq.drop(key)

	for k := range s.views {
		if k != s.generalKey {
			return
		}
	}
	s.views[key] = newView(key)
}
