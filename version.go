package triplet

// Version is overridden at build time with -ldflags "-X github.com/aretw0/triplet.Version=...".
var Version = "dev"
