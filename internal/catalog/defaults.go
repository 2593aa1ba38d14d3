package catalog

import "vehicle-fit/internal/domain"

var defaultVehicles = []domain.VehicleSpec{
	{Name: "Fiorino", Category: "Furgão pequeno", LengthM: 1.2, WidthM: 1.0, HeightM: 1.0, MaxWeightKg: 500},
	{Name: "Van Utilitário", LengthM: 1.6, WidthM: 1.0, HeightM: 1.0, MaxWeightKg: 500},
	{Name: "(HR Baú)", Category: "Caminhonete fechada", LengthM: 3.0, WidthM: 1.7, HeightM: 1.9, MaxWeightKg: 1300},
	{Name: "(HR Aberto)", Category: "Caminhonete Aberta", LengthM: 3.0, WidthM: 1.8, HeightM: 2.0, MaxWeightKg: 1300},
	{Name: "Veículo 3/4 Aberto", Category: "Leve 3/4 Aberto", LengthM: 5.0, WidthM: 2.1, HeightM: 2.3, MaxWeightKg: 3000},
	{Name: "Veículo 3/4 Baú", Category: "Leve 3/4 Baú", LengthM: 5.0, WidthM: 2.1, HeightM: 2.3, MaxWeightKg: 3000},
	{Name: "Veículo Toco Aberto", Category: "Toco Aberto", LengthM: 6.0, WidthM: 2.2, HeightM: 2.7, MaxWeightKg: 6000},
	{Name: "Veículo Toco Baú", Category: "Toco Baú", LengthM: 6.0, WidthM: 2.2, HeightM: 2.7, MaxWeightKg: 6000},
	{Name: "Vuc Baú", Category: "Vuc Baú Simples", LengthM: 3.1, WidthM: 1.8, HeightM: 2.0, MaxWeightKg: 2500},
	{Name: "Caminhão Truck Aberto", Category: "Truck + Metragem (7M; 7.5M; 8M)", LengthM: 8.0, WidthM: 2.4, HeightM: 2.8, MaxWeightKg: 12000},
	{Name: "Caminhão Truck Baú", Category: "Truck + Metragem (7M; 7.5M; 8M)", LengthM: 8.0, WidthM: 2.4, HeightM: 2.8, MaxWeightKg: 12000},
	{Name: "Combinado (Caminhão+Bi-truck) Aberto", Category: "Bi-Truck Aberto", LengthM: 10.0, WidthM: 2.4, HeightM: 2.8, MaxWeightKg: 17000},
	{Name: "Combinado (Caminhão+Bi-truck) Baú", Category: "Bi-Truck Baú", LengthM: 10.0, WidthM: 2.4, HeightM: 2.8, MaxWeightKg: 17000},
	{Name: "Carreta GNV", LengthM: 12.0, WidthM: 2.4, HeightM: 2.7, MaxWeightKg: 24000},
	{Name: "Carreta Sider", LengthM: 12.0, WidthM: 2.4, HeightM: 2.7, MaxWeightKg: 24000},
	{Name: "Carreta Wanderleia", LengthM: 12.0, WidthM: 2.4, HeightM: 2.7, MaxWeightKg: 27000},
	{Name: "Carreta Wanderleia Aberta", Category: "Carreta Aberta 3 eixos", LengthM: 18.15, WidthM: 2.6, HeightM: 2.9, MaxWeightKg: 46000},
	{Name: "Carreta Wanderleia Sider", Category: "Carreta Sider 3 eixos", LengthM: 15.2, WidthM: 2.6, HeightM: 2.8, MaxWeightKg: 41500},
	{Name: "Carreta Rodo Trem", LengthM: 12.0, WidthM: 2.4, HeightM: 2.7, MaxWeightKg: 74000},
	{Name: "Bitruck Sider", LengthM: 10.0, WidthM: 2.4, HeightM: 2.7, MaxWeightKg: 18000},
	{Name: "Carreta Grade Baixa", LengthM: 12.4, WidthM: 2.4, HeightM: 2.7, MaxWeightKg: 24000},
	{Name: "Wanderleia Carga Seca", LengthM: 14.4, WidthM: 2.4, HeightM: 2.7, MaxWeightKg: 27000},
}

// Default returns the built-in fleet, from small vans to road trains.
func Default() *Catalog {
	c, err := New(defaultVehicles)
	if err != nil {
		panic(err)
	}
	return c
}
