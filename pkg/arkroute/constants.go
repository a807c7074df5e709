package arkroute

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Generation completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitScanRootMissing = 11 // Scan root directory does not exist
	ExitTemplateError   = 12 // Registration template failed to load or render
	ExitManifestError   = 13 // module.json5 could not be patched
	ExitPublishFailed   = 14 // Artifact upload failed
)

const (
	// SourceExtension is the suffix of scanned ArkTS sources.
	SourceExtension = ".ets"

	// GeneratedFilePrefix prefixes every generated registration file name.
	// Files in the generated directory lacking it are pruned.
	GeneratedFilePrefix = "REX"

	// LegacyRegistrationFileName is the single shared registration file
	// written by older releases. It is removed on every run.
	LegacyRegistrationFileName = "builderRegister.ets"

	// BuilderSuffix terminates every builder function name.
	BuilderSuffix = "Builder"

	// RouteTableResource is the manifest reference to the route table profile.
	RouteTableResource = "$profile:route_map"

	// IndexFileName is the module export index that may carry a legacy re-export.
	IndexFileName = "Index.ets"

	// ConfigFileName is the project configuration file looked up in the module root.
	ConfigFileName = "arkroute.yaml"

	// EnvPrefix prefixes environment variables overriding configuration.
	EnvPrefix = "ARKROUTE_"
)

// Annotation shape recognized by the scanner.
const (
	RouteAnnotation   = "Route"
	RouteNameKey      = "name"
	RouteDescKey      = "description"
	ReservedStructKey = "struct"

	// MinAnnotations is the number of modifiers a declaration must carry
	// before its decorators are examined.
	MinAnnotations = 2
)

// Default layout relative to the module directory.
const (
	DefaultScanDir       = "src/main/ets"
	DefaultGeneratedDir  = "src/main/ets/_generated"
	DefaultRouteMapDir   = "src/main/resources/base/profile"
	DefaultRouteMapFile  = "route_map.json"
	DefaultManifestPath  = "src/main/module.json5"
	DefaultWatchDebounce = 300 * time.Millisecond
	DefaultServeAddr     = "127.0.0.1:7788"
)
