// Package docs serves the OpenAPI document of the API, built from the routes registered on the
// gin engine so it never drifts from what is actually mounted.
package docs

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Precast Catalog API",
	Description:      "Product configurator, cart, projects and quotation workflow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  "{}",
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

var ginPathParamRe = regexp.MustCompile(`[:*]([A-Za-z0-9_]+)`)

func ginPathToSwaggerPath(path string) string {
	return ginPathParamRe.ReplaceAllString(path, "{$1}")
}

// publicRoutes need no bearer token.
var publicRoutes = map[string]bool{
	"GET /api/health":            true,
	"GET /api/catalog":           true,
	"POST /api/configure/:shape": true,
	"GET /api/cities":            true,
	"POST /api/auth/signup":      true,
	"POST /api/auth/login":       true,
}

var errorSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"error": map[string]interface{}{"type": "string"},
		"code":  map[string]interface{}{"type": "string"},
	},
}

// tagFor groups /api/admin/quotations/:id under "admin quotations", /api/cart under "cart" and so on.
func tagFor(path string) string {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api"), "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "api"
	}
	if parts[0] == "admin" && len(parts) > 1 {
		return "admin " + parts[1]
	}
	return parts[0]
}

// Build returns the Swagger 2.0 document for routes.
func Build(routes gin.RoutesInfo) map[string]interface{} {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	paths := make(map[string]interface{})
	for _, route := range routes {
		if strings.HasPrefix(route.Path, "/swagger") {
			continue
		}
		path := ginPathToSwaggerPath(route.Path)
		if paths[path] == nil {
			paths[path] = make(map[string]interface{})
		}
		method := strings.ToLower(route.Method)

		op := map[string]interface{}{
			"summary":  route.Method + " " + route.Path,
			"tags":     []string{tagFor(route.Path)},
			"produces": []string{"application/json"},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{"description": "Success"},
				"400": map[string]interface{}{"description": "Bad Request", "schema": errorSchema},
				"500": map[string]interface{}{"description": "Internal Server Error", "schema": errorSchema},
			},
		}

		var params []map[string]interface{}
		for _, m := range ginPathParamRe.FindAllStringSubmatch(route.Path, -1) {
			params = append(params, map[string]interface{}{"in": "path", "name": m[1], "required": true, "type": "string"})
		}
		if method == "post" || method == "put" || method == "patch" {
			op["consumes"] = []string{"application/json"}
			params = append(params, map[string]interface{}{
				"in":       "body",
				"name":     "body",
				"required": false,
				"schema":   map[string]interface{}{"type": "object"},
			})
		}
		if len(params) > 0 {
			op["parameters"] = params
		}
		if !publicRoutes[route.Method+" "+route.Path] {
			op["security"] = []map[string][]string{{"BearerAuth": {}}}
			op["responses"].(map[string]interface{})["401"] = map[string]interface{}{"description": "Unauthorized", "schema": errorSchema}
		}

		paths[path].(map[string]interface{})[method] = op
	}

	return map[string]interface{}{
		"swagger": "2.0",
		"info": map[string]interface{}{
			"title":       SwaggerInfo.Title,
			"description": SwaggerInfo.Description,
			"version":     SwaggerInfo.Version,
		},
		"basePath": SwaggerInfo.BasePath,
		"schemes":  SwaggerInfo.Schemes,
		"securityDefinitions": map[string]interface{}{
			"BearerAuth": map[string]interface{}{"type": "apiKey", "in": "header", "name": "Authorization"},
		},
		"paths": paths,
	}
}

// Register rebuilds SwaggerInfo from the engine's routes. Call it after every route is mounted.
func Register(engine *gin.Engine) error {
	doc, err := json.Marshal(Build(engine.Routes()))
	if err != nil {
		return err
	}
	SwaggerInfo.SwaggerTemplate = string(doc)
	return nil
}
