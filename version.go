package localnetd

const unknownVersion = "version unknown"

// Version is the harness version, set at build time.
var Version = unknownVersion

func IsVersionKnown() bool {
	return Version != unknownVersion
}
