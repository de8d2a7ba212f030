package quotation

import "webnova-cotizador/models"

// DefaultNextID is the first id handed out on top of DefaultModules
const DefaultNextID = 15

// DefaultModules returns a fresh copy of the seeded module catalog (prices in RD$)
func DefaultModules() []models.Module {
	return []models.Module{
		{ID: 1, Name: "Landing Page", Price: 3500, Description: "Sección de inicio con branding y botón de WhatsApp", Category: "Frontend"},
		{ID: 2, Name: "Diseño Responsivo", Price: 3500, Description: "Adaptación para móviles, tablets y escritorio", Category: "Design"},
		{ID: 3, Name: "Catálogo de Vehículos", Price: 4000, Description: "Listado de vehículos con filtros y ficha de detalles", Category: "Frontend"},
		{ID: 4, Name: "Reserva (Formulario)", Price: 5000, Description: "Formulario con datos del cliente, fechas y lugares", Category: "Frontend"},
		{ID: 5, Name: "Soporte Multilingüe", Price: 2000, Description: "Interfaz en Español, Inglés y Francés", Category: "Frontend"},
		{ID: 6, Name: "Hosting + Dominio", Price: 2000, Description: "Configuración en Vercel + dominio personalizado", Category: "Infrastructure"},
		{ID: 7, Name: "Pasarela de Pago", Price: 18000, Description: "Integración con Azul, PayPal y opciones de transferencia", Category: "Backend"},
		{ID: 8, Name: "Gestión de Precios y Descuentos", Price: 13000, Description: "Lógica de mínimo 3 días, descuentos, seguro e impuestos", Category: "Backend"},
		{ID: 9, Name: "Notificaciones y WhatsApp", Price: 7000, Description: "Confirmaciones por correo y WhatsApp, cláusulas de responsabilidad", Category: "Integration"},
		{ID: 10, Name: "Panel de Administración", Price: 10000, Description: "Gestión de reservas, clientes y sincronización con Google Calendar", Category: "Backend"},
		{ID: 11, Name: "SEO y Publicidad", Price: 6000, Description: "Optimización SEO y preparación para campañas digitales", Category: "Marketing"},
		{ID: 12, Name: "Branding y Diseño", Price: 8000, Description: "Logo, colores corporativos, diseño gráfico y estilos", Category: "Design"},
		{ID: 13, Name: "Inventario Futuro", Price: 9000, Description: "Módulo adicional para gestión de inventario de vehículos", Category: "Backend"},
		{ID: 14, Name: "Control de Usuario (Futuro)", Price: 12000, Description: "Sistema de login, roles y clientes registrados", Category: "Backend"},
	}
}

// maxID returns the largest id in modules, or 0 for an empty catalog
func maxID(modules []models.Module) int {
	highest := 0
	for _, m := range modules {
		if m.ID > highest {
			highest = m.ID
		}
	}
	return highest
}
