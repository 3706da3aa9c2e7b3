package cache

// ScopedKeyer places every key of an inner Keyer under a namespace, so
// several deployments can share one Redis or cache directory without
// reading each other's snapshots. Keys become "<namespace>:<inner key>".
type ScopedKeyer struct {
	inner     Keyer
	namespace string
}

// NewScopedKeyer scopes inner (the default keyer when nil) to namespace.
func NewScopedKeyer(inner Keyer, namespace string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, namespace: namespace}
}

func (k ScopedKeyer) scope(key string) string { return k.namespace + ":" + key }

func (k ScopedKeyer) PackKey(matrixHash string) string {
	return k.scope(k.inner.PackKey(matrixHash))
}

func (k ScopedKeyer) MoveKey(packHash, target, direction string) string {
	return k.scope(k.inner.MoveKey(packHash, target, direction))
}

func (k ScopedKeyer) LayoutKey(packHash string, opts LayoutKeyOpts) string {
	return k.scope(k.inner.LayoutKey(packHash, opts))
}

func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.scope(k.inner.ArtifactKey(layoutHash, opts))
}
