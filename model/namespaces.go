package model

// Well-known namespace URIs used by the fabricated identity properties and
// by the frozen common-namespace table in package names. Centralized here
// so both model and names reference the same constants instead of
// duplicating string literals.
const (
	NSEmpty = ""
	NSJCR   = "http://www.jcp.org/jcr/1.0"
	NSNT    = "http://www.jcp.org/jcr/nt/1.0"
	NSMix   = "http://www.jcp.org/jcr/mix/1.0"
	NSRep   = "internal"
	NSSV    = "http://www.jcp.org/jcr/sv/1.0"
	NSXSI   = "http://www.w3.org/2001/XMLSchema-instance"
)
