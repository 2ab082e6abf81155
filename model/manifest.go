package model

// BuildArgs are passed to the hive simulator image.
type BuildArgs struct {
	Fixtures string `json:"fixtures"`
	Branch   string `json:"branch"`
}

// HiveConfig describes how to run hive for one EIP.
type HiveConfig struct {
	BuildArgs  BuildArgs `json:"buildArgs"`
	TestFilter string    `json:"testFilter"`
}

// EIPMetadata describes one EIP of a fork.
type EIPMetadata struct {
	Number      string     `json:"number"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Spec        string     `json:"spec"`
	TestCases   string     `json:"testCases"`
	Skip        bool       `json:"skip"`
	Hive        HiveConfig `json:"hive"`
}

// ForkManifest lists the EIPs grouped under a fork.
type ForkManifest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Banner      string        `json:"banner"`
	EIPs        []EIPMetadata `json:"eips"`
}
