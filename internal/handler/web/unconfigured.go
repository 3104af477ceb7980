package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const configRequiredMessage = "Supabase configuration required"

const configRequiredPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Supabase Configuration Required</title>
<link rel="stylesheet" href="/styles.css">
</head>
<body class="min-h-screen flex items-center justify-center bg-gray-50 p-4">
<main class="w-full max-w-2xl">
<h1 class="text-red-600">Supabase Configuration Required</h1>
<p>The application requires Supabase configuration to function properly.</p>
<h3>To fix this issue:</h3>
<ol>
<li>Create a <code>.env</code> file in your project root</li>
<li>Add your Supabase credentials:</li>
</ol>
<pre>VITE_SUPABASE_URL=https://your-project-id.supabase.co
VITE_SUPABASE_ANON_KEY=your-anon-key-here</pre>
<p>Get these values from your Supabase project dashboard under Settings &rarr; API</p>
<p><a href="javascript:location.reload()">Refresh Page</a> &middot; <a href="https://supabase.com/dashboard" target="_blank" rel="noopener">Open Supabase Dashboard</a></p>
</main>
</body>
</html>
`

// RegisterUnconfigured - режим без настроек Supabase: клиентские маршруты
// показывают страницу настройки, API отвечает 503. Статика доступна.
func (h *Host) RegisterUnconfigured(router *gin.Engine) {
	for _, route := range ShellRoutes {
		router.GET(route, serveConfigRequired)
	}
	h.registerAssets(router)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": configRequiredMessage})
			return
		}
		c.String(http.StatusNotFound, "Not found")
	})
}

func serveConfigRequired(c *gin.Context) {
	c.Data(http.StatusServiceUnavailable, "text/html; charset=utf-8", []byte(configRequiredPage))
}
