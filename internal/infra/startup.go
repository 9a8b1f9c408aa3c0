package infra

// StartupArgs are the arguments every startup entry launches the binary with.
const StartupArgs = "run --hidden"

// startupArgv is StartupArgs split for formats that list arguments separately.
var startupArgv = []string{"run", "--hidden"}
