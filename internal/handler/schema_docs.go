package handler

import (
	"github.com/Diego-SJ/PaleteriaChuchin/internal/notify"
)

// SchemaDocumentation references the types pushed over the notification
// websocket so swag includes them in the definitions section.
type SchemaDocumentation struct {
	Notification notify.Notification `json:"notification"`
}

// GetSchemaDocumentation is never routed.
// @Summary      Schema Documentation (Not a real endpoint)
// @Description  Documents the websocket notification payload.
// @Tags         internal
// @Produce      json
// @Success      200 {object} SchemaDocumentation
// @Router       /internal/schemas [get]
func GetSchemaDocumentation() {}
