package emit

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Alia5/iccgen/internal/codegen/common"
	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/namespace"
)

const doNotEdit = "/* Machine generated code: DO NOT EDIT */"

func basePreamble() string {
	return "\n" + common.CopyrightHeader + doNotEdit + "\n\n"
}

func basePostamble() string {
	return "\n" + doNotEdit + "\n"
}

// miscDefines are internal entry points namespaced without a public prototype.
var miscDefines = []string{
	"#define ICC_lib_cleanup ICC@Prefix@_lib_cleanup",
	"#define META_CRYPTO_mem_ctrl META@Prefix@_CRYPTO_mem_ctrl",
}

// initFunctions are the public entry points not listed in the declarations.
// Entries holding a #define are only written where defines are wanted.
var initFunctions = []string{
	"#define ICC_Init ICC@Prefix@_Init\n",
	"/*! @brief Obtain an ICC context\n" +
		" *  @param status a pointer to previously allocated ICC_STATUS structure\n" +
		" *  @param iccpath a string containing the root path to the ICC shared libraries\n" +
		" *  @note  ICC internally adds icc/icclib/[icc libname] icc/osslib/[openssl libname]\n" +
		" *  to the iccpath provided to locate the actual libraries\n" +
		" *  @return An ICC_CTX pointer or NULL on failure\n" +
		" */\n",
	"ICC_CTX * ICC_LINKAGE ICC@Prefix@_Init(ICC_STATUS* status,const char* iccpath);\n\n",
	"#if defined(_WIN32)\n" +
		"/* Should only be needed on Windows ... Unicode version of ICC_Init */\n",
	"#define ICC_InitW ICC@Prefix@_InitW\n",
	"/*! @brief Obtain an ICC context\n" +
		" *  @param status a pointer to previously allocated ICC_STATUS structure\n" +
		" *  @param iccpath a UNICODE string containing the root path to the ICC shared libraries\n" +
		" *  @note  ICC internally adds icc/icclib/[icc libname] icc/osslib/[openssl libname]" +
		" to the iccpath provided to locate the actual libraries\n" +
		" *  @return An ICC_CTX pointer or NULL on failure\n" +
		" */\n",
	"ICC_CTX * ICC_LINKAGE ICC@Prefix@_InitW(ICC_STATUS* status,const wchar_t* iccpath);\n",
	"#endif\n",
}

const gskPathFunctions = "\n" +
	"/*! @brief Find the full path to ICC needed to give to the ICC_Init call\n" +
	" *  @param return_path input buffer to contain the returned path\n" +
	" *  @param path_len max length to copying into return_path\n" +
	" *  @return The path length on sucess,0 on failure, -1 on a parameter error\n" +
	" */\n" +
	"int ICC_LINKAGE gskiccs_path(char *return_path, int path_len);\n\n" +
	"\n" +
	"#if defined(_WIN32)\n" +
	"/*! @brief Find the full path to ICC needed to give to the ICC_InitW call\n" +
	" *  @param return_path input buffer to contain the returned path\n" +
	" *  @param path_len max length to copying into return_path\n" +
	" *  @return The path length on sucess,0 on failure, -1 on a parameter error\n" +
	" */\n" +
	"int ICC_LINKAGE gskiccs_pathW(wchar_t *return_path, int path_len);\n\n" +
	"#endif\n" +
	"\n"

const prefixMarker = "@Prefix@"

// expandPrefix substitutes the first @Prefix@ marker. A #define additionally
// gets a doxygen cross reference to the namespaced symbol.
func expandPrefix(prefix, s string) string {
	j := strings.Index(s, prefixMarker)
	if j < 0 {
		return s
	}
	before, after := s[:j], s[j+len(prefixMarker):]
	var ref string
	if strings.Contains(s, "#define") {
		i := strings.LastIndexByte(s[:j], ' ') + 1
		ref = "/*! \\sa " + s[i:j] + prefix + strings.TrimRight(after, "\n") + " */\n"
	}
	return ref + before + prefix + after
}

// skeletons are the fixed C fragments around the generated members.
var skeletons = template.Must(template.New("skeletons").Funcs(template.FuncMap{
	"expand": expandPrefix,
	"symbol": namespace.Symbol,
}).Parse(
	`{{define "init-functions"}}` +
		"{{if .Defines}}/* Namespacing of Public API functions */\n{{end}}" +
		"{{range .Entries}}{{expand $.Prefix .}}\n{{end}}" +
		"{{if .Defines}}/* End namespacing of public API functions */\n{{end}}" +
		`{{end}}` +

		`{{define "lib-init"}}` +
		"{{if .FIPS}}#define lib_init C_lib_init\n#define NON_FIPS_ICC 0\n" +
		"{{else}}#define lib_init N_lib_init\n#define NON_FIPS_ICC 1\n{{end}}" +
		`{{end}}` +

		`{{define "misc-defines"}}` +
		"/* Non-public API functions, do not access via user code */\n" +
		"{{range .Entries}}{{expand $.Prefix .}}\n{{end}}" +
		`{{template "lib-init" .}}` +
		"/* End Non-public API function */\n" +
		`{{end}}` +

		`{{define "default-table"}}` +
		"\n/*! @brief this is the default data structure" +
		"\n    that holds the call table for {{.What}}" +
		"\n*/" +
		"\nstatic FUNC {{.Name}}[{{.Size}}] =" +
		"\n{\n{{range .Names}}\t{\"{{.}}\",NULL},\n{{end}}};\n" +
		`{{end}}` +

		`{{define "global-structure"}}` +
		"\n/*! @brief This is the global structure that holds the " +
		"\n           crypto library specific data." +
		"\n           Once it's loaded and the library has been validated" +
		"\n           the first time we don't need to touch this again." +
		"\n*/" +
		"\nstruct ICClibGlobal_t Global = {" +
		"\n\t\"ICC\", /*!< ID, Always ICC */" +
		"\n\t\"\",    /*!< version */" +
		"\n\t\"\",    /*!< load path */" +
		"\n\tNULL,    /*!< OpenSSL library handle, now unused */" +
		"\n\t{\n{{range .Bindings}}\t\t{\"{{.Name}}\",(PFI){{symbol .Prefix .Name}}},\n{{end}}" +
		"\t\t{NULL,NULL}," +
		"\n\t}\n," +
		"\n\t0,      /*!< unicode flag */" +
		"\n\t0       /*!< Initialized , i.e. POST run etc */" +
		"\n};\n\n" +
		`{{end}}`,
))

// render executes one of the skeletons into the artifact stream.
func (p *Pass) render(name string, data any) {
	if p.err != nil {
		return
	}
	if err := skeletons.ExecuteTemplate(p.Writer, name, data); err != nil && p.err == nil {
		p.err = fmt.Errorf("render %s: %w", name, err)
	}
}

// writeInitFunctions writes the hand written entry points, namespaced with
// prefix. Without defines only the prototypes and their documentation remain.
func writeInitFunctions(p *Pass, prefix string, defines bool) {
	var entries []string
	for _, s := range initFunctions {
		if defines || !strings.Contains(s, "#define") {
			entries = append(entries, s)
		}
	}
	p.render("init-functions", struct {
		Prefix  string
		Defines bool
		Entries []string
	}{prefix, defines, entries})
}

// writeLibInit selects the lib_init entry point of the FIPS or non-FIPS build.
func writeLibInit(p *Pass) {
	p.render("lib-init", struct{ FIPS bool }{p.Namespace().IsFIPS()})
}

// writeMiscDefines writes the non public defines of a namespaced build.
func writeMiscDefines(p *Pass) {
	ns := p.Namespace()
	if ns.ICCPrefix == "ICC_" {
		return
	}
	p.render("misc-defines", struct {
		Prefix  string
		FIPS    bool
		Entries []string
	}{ns.Prefix, ns.IsFIPS(), miscDefines})
}

func writeDefaultTable(p *Pass, what, name, size string) {
	p.render("default-table", struct {
		What, Name, Size string
		Names            []string
	}{what, name, size, p.Table.Names()})
}

type binding struct {
	Name   string
	Prefix string
}

// writeGlobalStructure binds every member to its implementation: my_<name>
// for redirected functions, the prefixed library symbol otherwise.
func writeGlobalStructure(p *Pass) {
	var bindings []binding
	for _, d := range Members(p.Ctx.Snapshot, p.Spec.Kind) {
		b := binding{Name: d.Name, Prefix: p.Namespace().OpenSSLPrefix}
		if d.Has(decl.Redirect) {
			b.Prefix = "my_"
		}
		bindings = append(bindings, b)
	}
	p.render("global-structure", struct{ Bindings []binding }{bindings})
}

const libGlobalTypes = "\n/*! @brief The definition of the global static library hook part of ICClib\n" +
	"             Only one instance exists which is populated only once, by the first\n" +
	"             ICC_Attach() call which loads and validates ICC and OpenSSL libraries\n" +
	"\n*/\n" +
	"\nstruct ICClibGlobal_t\n{\n\t" +
	"char ID[4];                          /*!< set to ICC */\n\t" +
	"char version[20];                    /*!< set to the ICC version i.e. 1.2 */\n\t" +
	"char iccpath[MAX_PATH*4];            /*!< set to the ICC path we loaded ICC from and large enough to hold uc32 strings */\n\t" +
	"void *hOSSLib;                       /*!< handle of OpenSSL library (from dlopen()) */\n\t" +
	"FUNC funcs[NUM_ICCLIBFUNCTIONS];        /*!< An array of them, one for each function */\n\t" +
	"int unicode;                         /*!< Unicode init path (iccpath) */\n\t" +
	"int initialized;                     /*!< Initialized, POST, integrity checks completed */\n\t" +
	"ICC_STATUS status;                   /*!< Global status. Needed since POST etc happen during library load now and we need to preserve errors */\n\t" +
	"ICC_Mutex mtx;                       /*!< Global mutex, mainly needed to keep thread safety debug tools from complaining*/\n\t" +
	"};\n" +
	"\n\n" +
	"/*! @brief ICClib_t is used to hold the per-instance ICC context info.\n" +
	"           This information is opaque to ICC users\n" +
	"*/\n" +
	"\nstruct ICClib_t\n{\n" +
	"\tFUNC *funcs;\n" +
	"\tint length;                          /*!< sizeof ICClib_t (myself) */\n" +
	"\tchar pIDinit[8];                     /*!< Process ID at ICC_Init */\n" +
	"\tchar tIDinit[8];                     /*!< Thread ID at ICC_Init */\n" +
	"\tchar toi[8];                         /*!< creation time i.e. time() */\n" +
	"\tchar pIDattach[8];                   /*!< Process ID at ICC_Attach */\n" +
	"\tchar tIDattach[8];                   /*!< Thread ID at ICC_Attach */\n" +
	"\tchar toa[8];                         /*!< attach time. i.e. time() */\n" +
	"\tint flags;                           /*!< mode flags. FIPS, ERROR etc*/\n" +
	"\tint lock;                            /*!< Set once initialized to prevent invalid mode changes*/\n" +
	"\tint unicode;                         /*!< Flag to let us know we were initialized with a unicode string */\n" +
	"\tCALLBACK_T callback;                 /*!< Callback for fips indicator*/\n" +
	"};\n\n" +
	"typedef struct ICClib_t ICClib;\n\n"
