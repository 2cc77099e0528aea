package synod

// Version is the library version, overridable at build time via
// -ldflags "-X synod.Version=...".
var Version = "0.1.0"
