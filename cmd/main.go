package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	pathpkg "path"
	"strconv"
	"strings"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/filesystem"
	"github.com/brettbedarf/memfs/internal/util"
	"github.com/brettbedarf/memfs/requests"
)

func main() {
	// Parse command line arguments
	var (
		configPath string
		nodesDef   string
		verbose    int
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (yaml or json)")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.StringVar(&nodesDef, "nodes", "", "Path to nodes def file")
	flag.StringVar(&nodesDef, "n", "", "--nodes (shorthand)")
	flag.IntVar(&verbose, "verbose", 3, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", 3, "--verbose (shorthand)")
	flag.Parse()

	// Init the config
	cfg := config.NewDefaultConfig()
	if configPath != "" {
		override, err := config.LoadConfigOverrideFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", configPath, err)
			os.Exit(1)
		}
		cfg.Merge(override)
	}
	cfg.Merge(&config.ConfigOverride{LogLvl: &verbose})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("main")
	logger.Info().Int("verbose", verbose).Str("nodes", nodesDef).Msg("memfs shell initializing")

	// Init the fs
	fs := memfs.New(cfg)

	// Load seed definitions
	if nodesDef != "" {
		loadSeeds(fs, nodesDef)
	}

	runShell(fs, os.Stdin, os.Stdout)
}

// loadSeeds reads a JSON nodes definition file and applies every request
// to the filesystem, directories first.
func loadSeeds(fs *filesystem.FileSystem, nodesDef string) {
	logger := util.GetLogger("loadSeeds")

	defData, err := os.ReadFile(nodesDef)
	if err != nil {
		logger.Fatal().Err(err).Str("nodes", nodesDef).Msg("Failed to read nodes file")
	}
	var rawNodes []json.RawMessage
	if err := json.Unmarshal(defData, &rawNodes); err != nil {
		logger.Fatal().Err(err).Str("nodes", nodesDef).Msg("Failed to unmarshal nodes file")
	}

	var fileRequests []*memfs.FileCreateRequest
	var dirRequests []*memfs.DirCreateRequest

	for _, rawNode := range rawNodes {
		nodeType, err := requests.GetNodeType(rawNode)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to get node type")
			continue
		}

		switch nodeType {
		case memfs.FileNodeType:
			fileReq, err := requests.UnmarshalFileRequest(rawNode)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to unmarshal file request")
				continue
			}
			fileRequests = append(fileRequests, fileReq)
			logger.Debug().Str("path", fileReq.Path).Str("uuid", fileReq.UUID).Msg("Processed file request")

		case memfs.DirNodeType:
			dirReq, err := requests.UnmarshalDirRequest(rawNode)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to unmarshal directory request")
				continue
			}
			dirRequests = append(dirRequests, dirReq)
			logger.Debug().Str("path", dirReq.Path).Str("uuid", dirReq.UUID).Msg("Processed directory request")

		default:
			logger.Warn().Str("type", string(nodeType)).Msg("Unknown node type")
		}
	}

	dirAddCnt := 0
	for _, req := range dirRequests {
		if err := applyDirRequest(fs, req); err != nil {
			logger.Error().Err(err).Str("path", req.Path).Str("uuid", req.UUID).Msg("Failed to add directory request")
			continue
		}
		dirAddCnt++
	}
	fileAddCnt := 0
	for _, req := range fileRequests {
		if err := applyFileRequest(fs, req); err != nil {
			logger.Error().Err(err).Str("path", req.Path).Str("uuid", req.UUID).Msg("Failed to add file request")
			continue
		}
		fileAddCnt++
	}
	logger.Info().Int("directories", dirAddCnt).Int("files", fileAddCnt).Msg("Added seed nodes to filesystem")
}

func applyDirRequest(fs *filesystem.FileSystem, req *memfs.DirCreateRequest) error {
	if err := fs.MkdirAll(req.Path); err != nil {
		return err
	}
	return applyAttrs(fs, req.Path, req.Attrs)
}

func applyFileRequest(fs *filesystem.FileSystem, req *memfs.FileCreateRequest) error {
	if dir := pathpkg.Dir(req.Path); dir != "." {
		if err := fs.MkdirAll(dir); err != nil {
			return err
		}
	}
	if err := fs.CreateFile(req.Path); err != nil {
		return err
	}
	if len(req.Content) > 0 {
		if _, err := fs.WriteAt(req.Path, 0, req.Content); err != nil {
			return err
		}
	}
	return applyAttrs(fs, req.Path, req.Attrs)
}

func applyAttrs(fs *filesystem.FileSystem, path string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	attrs, err := filesystem.ParseAttrNames(names)
	if err != nil {
		return err
	}
	return fs.SetAttributes(path, attrs)
}

// runShell is the interactive command loop. Each command maps one-to-one
// onto a filesystem operation; results print to out, diagnostics go to the
// logger on stderr.
func runShell(fs *filesystem.FileSystem, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "fsh> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			return
		}
		runCommand(fs, out, line)
	}
}

func runCommand(fs *filesystem.FileSystem, out io.Writer, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	ok := func(err error) {
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		fmt.Fprintln(out, "ok")
	}

	switch cmd {
	case "mkdir":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: mkdir PATH")
			return
		}
		ok(fs.MkdirAll(args[0]))

	case "create":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: create PATH")
			return
		}
		ok(fs.CreateFile(args[0]))

	case "ls":
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		entries, err := fs.List(path)
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		for _, e := range entries {
			fmt.Fprintln(out, e)
		}

	case "cd":
		path := "/"
		if len(args) > 0 {
			path = args[0]
		}
		ok(fs.ChangeDir(path))

	case "pwd":
		fmt.Fprintln(out, fs.WorkingDir())

	case "write":
		// everything after the path is the data, spaces included
		rest := strings.SplitN(line, " ", 3)
		if len(rest) < 3 {
			fmt.Fprintln(out, "usage: write PATH DATA...")
			return
		}
		n, err := fs.WriteAt(rest[1], 0, []byte(rest[2]))
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		fmt.Fprintln(out, n)

	case "read":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: read PATH")
			return
		}
		info, err := fs.Stat(args[0])
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		buf := make([]byte, info.Size)
		n, err := fs.ReadAt(args[0], 0, buf)
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		fmt.Fprintln(out, string(buf[:n]))

	case "rm":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: rm PATH")
			return
		}
		ok(fs.RemoveFile(args[0]))

	case "rmdir":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: rmdir PATH")
			return
		}
		ok(fs.RemoveDir(args[0]))

	case "mv":
		if len(args) < 2 {
			fmt.Fprintln(out, "usage: mv OLD NEW")
			return
		}
		ok(fs.Rename(args[0], args[1]))

	case "stat":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: stat PATH")
			return
		}
		info, err := fs.Stat(args[0])
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		printInfo(out, info)

	case "attrib":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: attrib PATH [FLAG...]")
			return
		}
		attrs, err := filesystem.ParseAttrNames(args[1:])
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		ok(fs.SetAttributes(args[0], attrs))

	case "touch":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: touch PATH")
			return
		}
		ok(fs.Touch(args[0]))

	case "find":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: find TERM")
			return
		}
		matches, err := fs.Search(args[0])
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		for _, m := range matches {
			fmt.Fprintln(out, m)
		}
		fmt.Fprintf(out, "%d match(es)\n", len(matches))

	case "open":
		if len(args) < 2 {
			fmt.Fprintln(out, "usage: open PATH r|w|rw")
			return
		}
		mode, err := parseMode(args[1])
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		fd, err := fs.Open(args[0], mode)
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		fmt.Fprintln(out, fd)

	case "close":
		fd, err := parseFd(args)
		if err != nil {
			fmt.Fprintln(out, "usage: close FD")
			return
		}
		ok(fs.Close(fd))

	case "seek":
		if len(args) < 3 {
			fmt.Fprintln(out, "usage: seek FD OFFSET set|cur|end")
			return
		}
		fd, err1 := strconv.Atoi(args[0])
		off, err2 := strconv.Atoi(args[1])
		whence, err3 := parseWhence(args[2])
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprintln(out, "usage: seek FD OFFSET set|cur|end")
			return
		}
		pos, err := fs.Seek(fd, off, whence)
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		fmt.Fprintln(out, pos)

	case "fread":
		if len(args) < 2 {
			fmt.Fprintln(out, "usage: fread FD LEN")
			return
		}
		fd, err1 := strconv.Atoi(args[0])
		length, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil || length < 0 {
			fmt.Fprintln(out, "usage: fread FD LEN")
			return
		}
		buf := make([]byte, length)
		n, err := fs.Read(fd, buf)
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		fmt.Fprintln(out, string(buf[:n]))

	case "fwrite":
		rest := strings.SplitN(line, " ", 3)
		if len(rest) < 3 {
			fmt.Fprintln(out, "usage: fwrite FD DATA...")
			return
		}
		fd, err := strconv.Atoi(rest[1])
		if err != nil {
			fmt.Fprintln(out, "usage: fwrite FD DATA...")
			return
		}
		n, err := fs.Write(fd, []byte(rest[2]))
		if err != nil {
			fmt.Fprintf(out, "err: %v\n", err)
			return
		}
		fmt.Fprintln(out, n)

	case "help":
		fmt.Fprintln(out, "commands: mkdir create ls cd pwd write read rm rmdir mv stat attrib touch find open close seek fread fwrite exit")

	default:
		fmt.Fprintln(out, "Unknown Command")
	}
}

func printInfo(out io.Writer, info filesystem.Info) {
	name := info.Name
	if name == "" {
		name = "/"
	}
	fmt.Fprintf(out, "%s type=%s attrs=%s created=%s modified=%s accessed=%s",
		name, info.Type, info.Attrs,
		info.Created.Format("2006-01-02 15:04:05"),
		info.Modified.Format("2006-01-02 15:04:05"),
		info.Accessed.Format("2006-01-02 15:04:05"))
	if info.IsDir() {
		fmt.Fprintf(out, " children=%d\n", info.Children)
	} else {
		fmt.Fprintf(out, " size=%d\n", info.Size)
	}
}

func parseMode(s string) (filesystem.OpenMode, error) {
	switch s {
	case "r":
		return filesystem.ModeRead, nil
	case "w":
		return filesystem.ModeWrite, nil
	case "rw":
		return filesystem.ModeReadWrite, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func parseWhence(s string) (int, error) {
	switch s {
	case "set", "0":
		return 0, nil
	case "cur", "1":
		return 1, nil
	case "end", "2":
		return 2, nil
	default:
		return 0, fmt.Errorf("unknown whence %q", s)
	}
}

func parseFd(args []string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing fd")
	}
	return strconv.Atoi(args[0])
}
