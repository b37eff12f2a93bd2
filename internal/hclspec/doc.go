// Package hclspec loads stage catalogs from HCL manifest files.
//
// A manifest declares one or more `stage` blocks describing an external
// analysis program: its executable, fixed arguments, accepted modifier flags,
// dependencies, and whether it may run distributed. Attribute values are
// evaluated and converted through cty so a manifest author gets a precise
// error naming the attribute when a value has the wrong shape.
package hclspec
