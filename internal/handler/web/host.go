// Package web - хостинг клиентского приложения: HTML-оболочка для клиентских
// маршрутов, собранные стили и исходники из src/ с транспиляцией TS/TSX на лету.
package web

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/gin-gonic/gin"
	"github.com/shenikar/incident_reporter/internal/config"
	"github.com/sirupsen/logrus"
)

// ShellRoutes - клиентские маршруты, которые отдают одну и ту же HTML-оболочку
var ShellRoutes = []string{"/", "/login", "/dashboard", "/report"}

var contentTypes = map[string]string{
	"js":   "application/javascript",
	"css":  "text/css",
	"svg":  "image/svg+xml",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"ico":  "image/x-icon",
}

type Host struct {
	root       string
	indexPath  string
	stylesPath string
	define     map[string]string
	logger     *logrus.Logger
}

func NewHost(cfg *config.Config, logger *logrus.Logger) *Host {
	return &Host{
		root:       cfg.WebRoot,
		indexPath:  cfg.IndexPath,
		stylesPath: cfg.StylesPath,
		define:     envDefine(cfg.SupabaseURL, cfg.SupabaseAnonKey),
		logger:     logger,
	}
}

// envDefine подставляет в клиентский код import.meta.env с настройками Supabase
func envDefine(supabaseURL, anonKey string) map[string]string {
	quote := func(s string) string {
		b, _ := json.Marshal(s)
		return string(b)
	}
	env, _ := json.Marshal(map[string]string{
		"VITE_SUPABASE_URL":      supabaseURL,
		"VITE_SUPABASE_ANON_KEY": anonKey,
	})
	return map[string]string{
		"import.meta.env":                        string(env),
		"import.meta.env.VITE_SUPABASE_URL":      quote(supabaseURL),
		"import.meta.env.VITE_SUPABASE_ANON_KEY": quote(anonKey),
	}
}

// Register регистрирует маршруты оболочки и статики.
// Неизвестные пути обрабатывает NoRoute.
func (h *Host) Register(router *gin.Engine) {
	for _, route := range ShellRoutes {
		router.GET(route, h.serveShell)
	}
	h.registerAssets(router)
	router.NoRoute(h.notFound)
}

func (h *Host) registerAssets(router *gin.Engine) {
	router.GET("/styles.css", h.serveStyles)
	router.GET("/src/*filepath", h.serveSource)
}

func (h *Host) serveShell(c *gin.Context) {
	html, err := os.ReadFile(filepath.Join(h.root, h.indexPath))
	if err != nil {
		h.logger.WithError(err).Error("Failed to read HTML shell")
		c.String(http.StatusInternalServerError, "Error loading page")
		return
	}
	c.Data(http.StatusOK, "text/html", html)
}

func (h *Host) serveStyles(c *gin.Context) {
	css, err := os.ReadFile(filepath.Join(h.root, h.stylesPath))
	if err != nil {
		h.logger.WithError(err).Error("CSS serving error")
		c.String(http.StatusNotFound, "CSS not found")
		return
	}
	c.Data(http.StatusOK, "text/css", css)
}

func (h *Host) serveSource(c *gin.Context) {
	log := h.logger.WithField("path", c.Request.URL.Path)

	filePath, ok := h.sourcePath(c.Param("filepath"))
	if !ok {
		c.String(http.StatusNotFound, "File not found")
		return
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Error("File serving error")
		}
		c.String(http.StatusNotFound, "File not found")
		return
	}

	ext := strings.TrimPrefix(path.Ext(filePath), ".")
	if ext == "ts" || ext == "tsx" {
		code, err := h.transpile(filePath, ext, data)
		if err != nil {
			log.WithError(err).Error("Build error")
			c.String(http.StatusInternalServerError, "Build error: %s", err.Error())
			return
		}
		c.Data(http.StatusOK, "application/javascript", code)
		return
	}

	contentType, ok := contentTypes[ext]
	if !ok {
		contentType = "text/plain"
	}
	c.Data(http.StatusOK, contentType, data)
}

// sourcePath отображает путь запроса в файл под <root>/src, не выпуская за его пределы
func (h *Host) sourcePath(requested string) (string, bool) {
	cleaned := path.Clean("/" + requested)
	if cleaned == "/" {
		return "", false
	}
	return filepath.Join(h.root, "src", filepath.FromSlash(cleaned)), true
}

// transpile переводит один TS/TSX файл в ESM без сборки зависимостей
func (h *Host) transpile(filePath, ext string, source []byte) ([]byte, error) {
	loader := api.LoaderTS
	if ext == "tsx" {
		loader = api.LoaderTSX
	}

	result := api.Transform(string(source), api.TransformOptions{
		Loader:     loader,
		Format:     api.FormatESModule,
		Target:     api.ES2020,
		JSX:        api.JSXAutomatic,
		Define:     h.define,
		Sourcefile: filePath,
	})
	if len(result.Errors) > 0 {
		messages := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return nil, errors.New(strings.TrimSpace(strings.Join(messages, "\n")))
	}
	return result.Code, nil
}

// notFound: /api/* без обработчика - заглушка, остальное - 404
func (h *Host) notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusOK, gin.H{"message": "API endpoint"})
		return
	}
	c.String(http.StatusNotFound, "Not found")
}
