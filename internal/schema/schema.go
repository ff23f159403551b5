// Package schema declares the gohcl decoding structs of the HCL configuration
// format.
package schema

// Remote represents a `remote` block: one federation remote consumed at
// render time.
type Remote struct {
	Name        string `hcl:"name,label"`
	ManifestURL string `hcl:"manifest_url"`
	PublicHost  string `hcl:"public_host"`
}

// Expose represents an `expose` block, the object form of an exposed module.
type Expose struct {
	Key    string `hcl:"key,label"`
	Import string `hcl:"import"`
}

// Container represents the `container` block of the build emitting a
// manifest. Exposed modules may be given as an `exposes` map of key to
// import path, as `expose` blocks, or both.
type Container struct {
	Name        string            `hcl:"name,label"`
	Kind        string            `hcl:"kind,optional"`
	LibraryName string            `hcl:"library_name,optional"`
	Target      string            `hcl:"target,optional"`
	Exposes     map[string]string `hcl:"exposes,optional"`
	Expose      []*Expose         `hcl:"expose,block"`
}

// Manifest represents the `manifest` block.
type Manifest struct {
	FileName string `hcl:"file_name,optional"`
}

// Integrity represents the `integrity` block. A present block is enabled
// unless `enabled = false`.
type Integrity struct {
	Enabled *bool  `hcl:"enabled,optional"`
	Compute string `hcl:"compute,optional"`
}

// Fetch represents the `fetch` block.
type Fetch struct {
	Timeout     string `hcl:"timeout,optional"`
	Concurrency int    `hcl:"concurrency,optional"`
}

// File is the top-level structure of a configuration file.
type File struct {
	Remotes    []*Remote    `hcl:"remote,block"`
	Containers []*Container `hcl:"container,block"`
	Manifests  []*Manifest  `hcl:"manifest,block"`
	Integrity  []*Integrity `hcl:"integrity,block"`
	Fetch      []*Fetch     `hcl:"fetch,block"`
}
