// internal/poller/registers.go
package poller

// DV10 is the register map of the DV10 air handling unit, in poll order.
// Birth certificates announce metrics in this order.
var DV10 = []RegisterSpec{
	{Address: 1, Kind: KindScaled, Field: "heat_exchanger_efficiency", Metric: "HeatExchangerEfficiency"},
	{Address: 2, Kind: KindRaw, Field: "run_mode", Metric: "RunMode"},

	{Address: 0, Kind: KindScaled, Field: "outdoor_temp", Metric: "OutdoorTemp"},
	{Address: 6, Kind: KindScaled, Field: "supply_air_temp", Metric: "SupplyAirTemp"},
	{Address: 7, Kind: KindScaled, Field: "supply_air_setpoint_temp", Metric: "SupplyAirSetpointTemp"},
	{Address: 8, Kind: KindScaled, Field: "exhaust_air_temp", Metric: "ExhaustAirTemp"},
	{Address: 19, Kind: KindScaled, Field: "extract_air_temp", Metric: "ExtractAirTemp"},

	{Address: 12, Kind: KindScaled, Field: "supply_air_pressure", Metric: "SupplyAirPressure"},
	{Address: 13, Kind: KindScaled, Field: "extract_air_pressure", Metric: "ExtractAirPressure"},

	{Address: 14, Kind: KindScaled, Field: "supply_air_flow", Metric: "SupplyAirFlow"},
	{Address: 15, Kind: KindScaled, Field: "extract_air_flow", Metric: "ExtractAirFlow"},
	{Address: 292, Kind: KindScaled, Field: "extra_supply_air_flow", Metric: "ExtraSupplyAirFlow"},
	{Address: 293, Kind: KindScaled, Field: "extra_extract_air_flow", Metric: "ExtraExtractAirFlow"},

	// Runtime counters count toward validity whether or not the read succeeds.
	{Address: 3, Kind: KindRaw, Field: "supply_air_fan_runtime", Metric: "SupplyFanRuntime", Tally: TallyAlways},
	{Address: 4, Kind: KindRaw, Field: "extract_air_fan_runtime", Metric: "ExtractFanRuntime", Tally: TallyAlways},
}
