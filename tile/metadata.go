package tile

// MetaAdd creates a new fixed-size metadata entry. Fixed entries can
// only ever be updated to a same-size replacement afterward (spec
// §4.8) — the container enforces that on MetaUpdate, not here.
func (a *Array) MetaAdd(name string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if name == DescriptorMetaName {
		return errInvalidArgument("MetaAdd", "metalayer name %q is reserved", DescriptorMetaName)
	}
	if err := a.c.MetaAdd(name, data); err != nil {
		return errCodecFailed("MetaAdd", err)
	}
	return nil
}

// MetaGet reads a fixed-size metadata entry's current bytes.
func (a *Array) MetaGet(name string) ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.c.MetaGet(name)
}

// MetaExists reports whether a fixed-size metadata entry is present.
func (a *Array) MetaExists(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.c.MetaExists(name)
}

// MetaUpdate replaces a fixed-size metadata entry's bytes. The
// replacement must be the same length as the entry's current value
// (spec §4.8's fixed-namespace invariant); the Container implementation
// is responsible for rejecting a size mismatch.
func (a *Array) MetaUpdate(name string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if name == DescriptorMetaName {
		return errInvalidArgument("MetaUpdate", "metalayer name %q is reserved", DescriptorMetaName)
	}
	if err := a.c.MetaUpdate(name, data); err != nil {
		return errCodecFailed("MetaUpdate", err)
	}
	return nil
}

// MetaNames lists every fixed-size metadata entry name, including the
// reserved descriptor.
func (a *Array) MetaNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.c.MetaNames()
}

// VLMetaAdd creates a new variable-length metadata entry.
func (a *Array) VLMetaAdd(name string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.c.VLMetaAdd(name, data); err != nil {
		return errCodecFailed("VLMetaAdd", err)
	}
	return nil
}

// VLMetaGet reads a variable-length metadata entry's current bytes.
func (a *Array) VLMetaGet(name string) ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.c.VLMetaGet(name)
}

// VLMetaExists reports whether a variable-length metadata entry is
// present.
func (a *Array) VLMetaExists(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.c.VLMetaExists(name)
}

// VLMetaUpdate replaces a variable-length metadata entry's bytes. Unlike
// MetaUpdate, the replacement may be a different length than the
// current value (spec §4.8's variable-length namespace).
func (a *Array) VLMetaUpdate(name string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.c.VLMetaUpdate(name, data); err != nil {
		return errCodecFailed("VLMetaUpdate", err)
	}
	return nil
}

// VLMetaNames lists every variable-length metadata entry name.
func (a *Array) VLMetaNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.c.VLMetaNames()
}
