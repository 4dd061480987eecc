package ports

// Contract for classifying a coordinate reference system identifier.
type CRSClassifier interface {
	// Report whether crs denotes a geographic (angular) system.
	// Unknown identifiers are an error rather than a guess.
	IsGeographic(crs string) (bool, error)
}
