package expand

// abbreviations maps a common shorthand token to the full-word tokens it
// stands for. Order within a value matters for determinism but not for
// matching itself; the map is only indexed by prompt token, in prompt-token
// order, never ranged over.
var abbreviations = map[string][]string{
	"db":       {"database"},
	"dbs":      {"databases"},
	"repo":     {"repository"},
	"repos":    {"repositories"},
	"config":   {"configuration"},
	"cfg":      {"configuration"},
	"env":      {"environment"},
	"envs":     {"environments"},
	"prod":     {"production"},
	"dev":      {"development"},
	"staging":  {"stage"},
	"auth":     {"authentication", "authorization"},
	"authn":    {"authentication"},
	"authz":    {"authorization"},
	"perf":     {"performance"},
	"opt":      {"optimization"},
	"impl":     {"implementation"},
	"impls":    {"implementations"},
	"refactor": {"restructure"},
	"pr":       {"github pull request"},
	"prs":      {"github pull requests"},
	"mr":       {"merge request"},
	"ci":       {"cicd deployment automation"},
	"cd":       {"cicd deployment automation"},
	"cicd":     {"cicd deployment automation"},
	"api":      {"application programming interface"},
	"apis":     {"application programming interfaces"},
	"ui":       {"user interface"},
	"ux":       {"user experience"},
	"fe":       {"frontend"},
	"be":       {"backend"},
	"k8s":      {"kubernetes"},
	"docker":   {"container"},
	"infra":    {"infrastructure"},
	"deps":     {"dependencies"},
	"dep":      {"dependency"},
	"pkg":      {"package"},
	"pkgs":     {"packages"},
	"lib":      {"library"},
	"libs":     {"libraries"},
	"fn":       {"function"},
	"fns":      {"functions"},
	"func":     {"function"},
	"var":      {"variable"},
	"vars":     {"variables"},
	"arg":      {"argument"},
	"args":     {"arguments"},
	"param":    {"parameter"},
	"params":   {"parameters"},
	"err":      {"error"},
	"errs":     {"errors"},
	"exc":      {"exception"},
	"excs":     {"exceptions"},
	"msg":      {"message"},
	"msgs":     {"messages"},
	"req":      {"request"},
	"reqs":     {"requests"},
	"res":      {"response"},
	"resp":     {"response"},
	"async":    {"asynchronous"},
	"sync":     {"synchronous"},
	"concurr":  {"concurrent", "concurrency"},
	"perms":    {"permissions"},
	"perm":     {"permission"},
	"admin":    {"administrator"},
	"sec":      {"security"},
	"vuln":     {"vulnerability"},
	"vulns":    {"vulnerabilities"},
	"crypto":   {"cryptography"},
	"algo":     {"algorithm"},
	"algos":    {"algorithms"},
	"struct":   {"structure"},
	"structs":  {"structures"},
	"impl'd":   {"implemented"},
	"docs":     {"documentation"},
	"doc":      {"documentation"},
	"readme":   {"documentation"},
	"cli":      {"command line interface"},
	"gui":      {"graphical user interface"},
	"os":       {"operating system"},
	"fs":       {"filesystem"},
	"http":     {"hypertext transfer protocol"},
	"json":     {"javascript object notation"},
	"yaml":     {"yaml ain't markup language"},
	"sql":      {"structured query language"},
	"orm":      {"object relational mapping"},
	"mvc":      {"model view controller"},
	"tdd":      {"test driven development"},
	"bdd":      {"behavior driven development"},
	"regex":    {"regular expression"},
	"regexp":   {"regular expression"},
	"iface":    {"interface"},
	"ifaces":   {"interfaces"},
}

// synonymRules gives, in fixed order, alternate phrasings that should be
// treated as expansion tokens for the head term. Expansion always walks the
// same rule sequence regardless of prompt content, so results stay
// deterministic.
type synonymRule struct {
	term     string
	synonyms []string
}

var synonymRules = []synonymRule{
	{"fix", []string{"repair", "resolve", "correct", "patch"}},
	{"bug", []string{"defect", "issue", "problem", "flaw"}},
	{"error", []string{"failure", "fault", "exception"}},
	{"test", []string{"verify", "validate", "check"}},
	{"create", []string{"add", "make", "generate", "build"}},
	{"delete", []string{"remove", "drop", "erase"}},
	{"update", []string{"modify", "change", "edit", "revise"}},
	{"review", []string{"inspect", "audit", "examine"}},
	{"deploy", []string{"release", "publish", "ship"}},
	{"optimize", []string{"speed up", "improve", "tune"}},
	{"refactor", []string{"restructure", "reorganize", "clean up"}},
	{"document", []string{"describe", "explain", "write up"}},
	{"design", []string{"architect", "plan", "structure"}},
	{"debug", []string{"diagnose", "troubleshoot", "investigate"}},
	{"secure", []string{"harden", "protect", "lock down"}},
	{"migrate", []string{"port", "transition", "move"}},
	{"integrate", []string{"connect", "wire up", "hook up"}},
	{"analyze", []string{"assess", "evaluate", "profile"}},
	{"scale", []string{"grow", "expand capacity"}},
	{"configure", []string{"set up", "provision"}},
	{"monitor", []string{"observe", "watch", "track"}},
	{"cache", []string{"memoize", "store temporarily"}},
	{"query", []string{"lookup", "fetch", "retrieve"}},
	{"validate", []string{"check", "verify", "sanitize"}},
	{"authenticate", []string{"log in", "sign in", "verify identity"}},
	{"authorize", []string{"grant access", "permit"}},
	{"encrypt", []string{"cipher", "obfuscate securely"}},
	{"parse", []string{"interpret", "decode", "tokenize"}},
	{"serialize", []string{"encode", "marshal"}},
	{"deserialize", []string{"decode", "unmarshal"}},
	{"log", []string{"record", "trace", "audit trail"}},
	{"schedule", []string{"queue", "plan execution"}},
	{"retry", []string{"reattempt", "back off and retry"}},
	{"rollback", []string{"revert", "undo"}},
	{"branch", []string{"fork", "checkout"}},
	{"merge", []string{"combine", "integrate changes"}},
	{"commit", []string{"save changes", "check in"}},
	{"clone", []string{"copy repository", "checkout"}},
	{"lint", []string{"style check", "static analysis"}},
	{"format", []string{"pretty print", "style"}},
	{"compile", []string{"build", "transpile"}},
	{"run", []string{"execute", "launch", "start"}},
	{"stop", []string{"halt", "terminate", "kill"}},
	{"restart", []string{"bounce", "cycle"}},
	{"install", []string{"set up", "provision"}},
	{"uninstall", []string{"remove", "tear down"}},
	{"upgrade", []string{"update version", "bump version"}},
	{"downgrade", []string{"revert version"}},
	{"backup", []string{"snapshot", "archive"}},
	{"restore", []string{"recover", "roll back to"}},
	{"index", []string{"catalog", "enumerate"}},
	{"search", []string{"find", "locate", "look up"}},
	{"filter", []string{"narrow down", "select subset"}},
	{"sort", []string{"order", "arrange"}},
	{"aggregate", []string{"summarize", "roll up"}},
	{"visualize", []string{"chart", "plot", "graph"}},
	{"benchmark", []string{"measure performance", "profile"}},
	{"throttle", []string{"rate limit"}},
	{"paginate", []string{"page through"}},
	{"normalize", []string{"canonicalize", "standardize"}},
	{"sanitize", []string{"clean input", "escape"}},
	{"mock", []string{"stub", "fake"}},
	{"simulate", []string{"emulate", "model"}},
	{"provision", []string{"set up infrastructure"}},
	{"orchestrate", []string{"coordinate", "manage workflow"}},
	{"containerize", []string{"dockerize"}},
	{"virtualize", []string{"sandbox"}},
	{"replicate", []string{"duplicate", "mirror"}},
	{"shard", []string{"partition data"}},
	{"reconcile", []string{"resolve differences"}},
	{"instrument", []string{"add telemetry"}},
	{"trace", []string{"follow execution", "profile calls"}},
	{"lock", []string{"pin version", "freeze"}},
}
