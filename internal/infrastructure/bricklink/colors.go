// Package bricklink implementa los colaboradores de archivo de la herramienta:
// carga y fusión de exports de pedidos (XML/CSV) y parseo de listas de deseados.
package bricklink

// Tabla de colores BrickLink (id → nombre). Subconjunto de los colores que
// aparecen en pedidos reales; los ids desconocidos se reportan sin nombre.
var colorNames = map[int]string{
	0:   "(Not Applicable)",
	1:   "White",
	2:   "Tan",
	3:   "Yellow",
	4:   "Orange",
	5:   "Red",
	6:   "Green",
	7:   "Blue",
	8:   "Brown",
	9:   "Light Gray",
	10:  "Dark Gray",
	11:  "Black",
	12:  "Trans-Clear",
	13:  "Trans-Black",
	14:  "Trans-Dark Blue",
	15:  "Trans-Light Blue",
	16:  "Trans-Neon Green",
	17:  "Trans-Red",
	18:  "Trans-Neon Orange",
	19:  "Trans-Yellow",
	20:  "Trans-Green",
	21:  "Chrome Gold",
	22:  "Chrome Silver",
	23:  "Pink",
	24:  "Purple",
	25:  "Salmon",
	26:  "Light Salmon",
	27:  "Rust",
	28:  "Flesh",
	29:  "Light Orange",
	33:  "Light Yellow",
	34:  "Lime",
	35:  "Light Lime",
	36:  "Bright Green",
	37:  "Medium Green",
	38:  "Light Green",
	39:  "Dark Turquoise",
	40:  "Light Turquoise",
	41:  "Aqua",
	42:  "Medium Blue",
	43:  "Violet",
	44:  "Light Violet",
	46:  "Glow In Dark Opaque",
	47:  "Dark Pink",
	48:  "Sand Green",
	49:  "Very Light Gray",
	50:  "Trans-Dark Pink",
	54:  "Sand Purple",
	55:  "Sand Blue",
	56:  "Light Pink",
	57:  "Sand Red",
	58:  "Sand Tan",
	59:  "Dark Red",
	60:  "Milky White",
	61:  "Pearl Light Gold",
	62:  "Light Blue",
	63:  "Dark Blue",
	65:  "Metallic Gold",
	66:  "Pearl Light Gray",
	67:  "Metallic Silver",
	68:  "Dark Orange",
	69:  "Dark Tan",
	70:  "Metallic Green",
	71:  "Magenta",
	72:  "Maersk Blue",
	73:  "Medium Violet",
	74:  "Trans-Medium Blue",
	76:  "Medium Lime",
	77:  "Pearl Dark Gray",
	78:  "Metal Blue",
	80:  "Dark Green",
	81:  "Flat Dark Gold",
	84:  "Copper",
	85:  "Dark Bluish Gray",
	86:  "Light Bluish Gray",
	87:  "Sky Blue",
	88:  "Reddish Brown",
	89:  "Dark Purple",
	90:  "Light Nougat",
	91:  "Medium Brown",
	93:  "Light Purple",
	94:  "Medium Dark Pink",
	95:  "Flat Silver",
	96:  "Very Light Orange",
	97:  "Blue-Violet",
	99:  "Very Light Bluish Gray",
	103: "Bright Light Yellow",
	104: "Bright Pink",
	105: "Bright Light Blue",
	106: "Fabuland Brown",
	110: "Bright Light Orange",
	115: "Pearl Gold",
	120: "Dark Brown",
	150: "Medium Nougat",
	153: "Dark Azure",
	156: "Medium Azure",
	154: "Lavender",
	157: "Medium Lavender",
	158: "Yellowish Green",
	159: "Glow In Dark White",
	160: "Fabuland Orange",
	161: "Dark Yellow",
	162: "Glitter Trans-Light Blue",
	168: "Umber",
	219: "Olive Green",
	220: "Coral",
	236: "Trans-Light Purple",
}

// GetColorName devuelve el nombre del color BrickLink, o "" si no está en la tabla.
func GetColorName(id int) string {
	return colorNames[id]
}
