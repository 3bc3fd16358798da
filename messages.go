package gxstream

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:errcheck
func init() {
	// --- English (default) ---
	message.SetString(language.AmericanEnglish, "msg.opening", "Opening %s %s")
	message.SetString(language.AmericanEnglish, "msg.opened", "Opened %s")
	message.SetString(language.AmericanEnglish, "msg.open_attempt_failed", "Open attempt %d/%d to %s failed: %v")
	message.SetString(language.AmericanEnglish, "msg.open_failed", "Failed to open %s after %d attempts")
	message.SetString(language.AmericanEnglish, "msg.closing", "Closing %s")
	message.SetString(language.AmericanEnglish, "msg.closed", "Closed %s")
	message.SetString(language.AmericanEnglish, "msg.connection_lost", "Connection to %s lost")
	message.SetString(language.AmericanEnglish, "msg.read_timeout", "Read timed out")
	message.SetString(language.AmericanEnglish, "msg.not_open", "The port is not open")
	message.SetString(language.AmericanEnglish, "msg.read_failed", "Read failed: %v")
	message.SetString(language.AmericanEnglish, "msg.write_timeout", "Write timed out")
	message.SetString(language.AmericanEnglish, "msg.write_failed", "Write failed: %v")
	message.SetString(language.AmericanEnglish, "msg.settings_staged", "Settings of %s changed; they are applied on the next cycle")
	message.SetString(language.AmericanEnglish, "msg.count_or_eop", "Either Count or EOP must be set")
	message.SetString(language.AmericanEnglish, "msg.no_endpoint_selected", "No endpoint selected. Please select a serial port or a host.")

	// --- German (de) ---
	message.SetString(language.German, "msg.opening", "%s %s wird geöffnet")
	message.SetString(language.German, "msg.opened", "%s geöffnet")
	message.SetString(language.German, "msg.open_attempt_failed", "Öffnungsversuch %d/%d für %s fehlgeschlagen: %v")
	message.SetString(language.German, "msg.open_failed", "%s konnte nach %d Versuchen nicht geöffnet werden")
	message.SetString(language.German, "msg.closing", "%s wird geschlossen")
	message.SetString(language.German, "msg.closed", "%s geschlossen")
	message.SetString(language.German, "msg.connection_lost", "Verbindung zu %s verloren")
	message.SetString(language.German, "msg.read_timeout", "Zeitüberschreitung beim Lesen")
	message.SetString(language.German, "msg.not_open", "Der Port ist nicht geöffnet")
	message.SetString(language.German, "msg.read_failed", "Lesen fehlgeschlagen: %v")
	message.SetString(language.German, "msg.write_timeout", "Zeitüberschreitung beim Schreiben")
	message.SetString(language.German, "msg.write_failed", "Schreiben fehlgeschlagen: %v")
	message.SetString(language.German, "msg.settings_staged", "Einstellungen von %s geändert; sie werden beim nächsten Zyklus übernommen")
	message.SetString(language.German, "msg.count_or_eop", "Entweder Count oder EOP muss gesetzt sein")
	message.SetString(language.German, "msg.no_endpoint_selected", "Kein Endpunkt ausgewählt. Bitte wählen Sie einen seriellen Port oder einen Host aus.")

	// --- Finnish (fi) ---
	message.SetString(language.Finnish, "msg.opening", "Avataan %s %s")
	message.SetString(language.Finnish, "msg.opened", "%s avattu")
	message.SetString(language.Finnish, "msg.open_attempt_failed", "Avausyritys %d/%d kohteeseen %s epäonnistui: %v")
	message.SetString(language.Finnish, "msg.open_failed", "Kohteen %s avaus epäonnistui %d yrityksen jälkeen")
	message.SetString(language.Finnish, "msg.closing", "Suljetaan %s")
	message.SetString(language.Finnish, "msg.closed", "%s suljettu")
	message.SetString(language.Finnish, "msg.connection_lost", "Yhteys kohteeseen %s katkesi")
	message.SetString(language.Finnish, "msg.read_timeout", "Lukeminen aikakatkaistiin")
	message.SetString(language.Finnish, "msg.not_open", "Portti ei ole auki")
	message.SetString(language.Finnish, "msg.read_failed", "Lukeminen epäonnistui: %v")
	message.SetString(language.Finnish, "msg.write_timeout", "Kirjoittaminen aikakatkaistiin")
	message.SetString(language.Finnish, "msg.write_failed", "Kirjoittaminen epäonnistui: %v")
	message.SetString(language.Finnish, "msg.settings_staged", "Kohteen %s asetukset muuttuivat; ne otetaan käyttöön seuraavassa syklissä")
	message.SetString(language.Finnish, "msg.count_or_eop", "Joko Count tai EOP on asetettava")
	message.SetString(language.Finnish, "msg.no_endpoint_selected", "Kohdetta ei ole valittu. Valitse sarjaportti tai palvelin.")

	// --- Swedish (sv) ---
	message.SetString(language.Swedish, "msg.opening", "Öppnar %s %s")
	message.SetString(language.Swedish, "msg.opened", "%s öppnad")
	message.SetString(language.Swedish, "msg.open_attempt_failed", "Öppningsförsök %d/%d till %s misslyckades: %v")
	message.SetString(language.Swedish, "msg.open_failed", "Kunde inte öppna %s efter %d försök")
	message.SetString(language.Swedish, "msg.closing", "Stänger %s")
	message.SetString(language.Swedish, "msg.closed", "%s stängd")
	message.SetString(language.Swedish, "msg.connection_lost", "Anslutningen till %s förlorades")
	message.SetString(language.Swedish, "msg.read_timeout", "Läsningen tog för lång tid")
	message.SetString(language.Swedish, "msg.not_open", "Porten är inte öppen")
	message.SetString(language.Swedish, "msg.read_failed", "Läsningen misslyckades: %v")
	message.SetString(language.Swedish, "msg.write_timeout", "Skrivningen tog för lång tid")
	message.SetString(language.Swedish, "msg.write_failed", "Skrivningen misslyckades: %v")
	message.SetString(language.Swedish, "msg.settings_staged", "Inställningarna för %s ändrades; de tillämpas vid nästa cykel")
	message.SetString(language.Swedish, "msg.count_or_eop", "Antingen Count eller EOP måste anges")
	message.SetString(language.Swedish, "msg.no_endpoint_selected", "Ingen slutpunkt vald. Välj en seriell port eller en värd.")

	// --- Spanish (es) ---
	message.SetString(language.Spanish, "msg.opening", "Abriendo %s %s")
	message.SetString(language.Spanish, "msg.opened", "%s abierto")
	message.SetString(language.Spanish, "msg.open_attempt_failed", "El intento de apertura %d/%d de %s falló: %v")
	message.SetString(language.Spanish, "msg.open_failed", "No se pudo abrir %s tras %d intentos")
	message.SetString(language.Spanish, "msg.closing", "Cerrando %s")
	message.SetString(language.Spanish, "msg.closed", "%s cerrado")
	message.SetString(language.Spanish, "msg.connection_lost", "Se perdió la conexión con %s")
	message.SetString(language.Spanish, "msg.read_timeout", "Tiempo de lectura agotado")
	message.SetString(language.Spanish, "msg.not_open", "El puerto no está abierto")
	message.SetString(language.Spanish, "msg.read_failed", "Error de lectura: %v")
	message.SetString(language.Spanish, "msg.write_timeout", "Tiempo de escritura agotado")
	message.SetString(language.Spanish, "msg.write_failed", "Error de escritura: %v")
	message.SetString(language.Spanish, "msg.settings_staged", "La configuración de %s cambió; se aplicará en el próximo ciclo")
	message.SetString(language.Spanish, "msg.count_or_eop", "Se debe establecer Count o EOP")
	message.SetString(language.Spanish, "msg.no_endpoint_selected", "No se ha seleccionado ningún destino. Seleccione un puerto serie o un host.")

	// --- Estonian (et) ---
	message.SetString(language.Estonian, "msg.opening", "Avatakse %s %s")
	message.SetString(language.Estonian, "msg.opened", "%s avatud")
	message.SetString(language.Estonian, "msg.open_attempt_failed", "Avamiskatse %d/%d sihtkohta %s ebaõnnestus: %v")
	message.SetString(language.Estonian, "msg.open_failed", "Sihtkohta %s ei õnnestunud avada %d katsega")
	message.SetString(language.Estonian, "msg.closing", "Suletakse %s")
	message.SetString(language.Estonian, "msg.closed", "%s suletud")
	message.SetString(language.Estonian, "msg.connection_lost", "Ühendus sihtkohta %s katkes")
	message.SetString(language.Estonian, "msg.read_timeout", "Lugemise ajalõpp")
	message.SetString(language.Estonian, "msg.not_open", "Port ei ole avatud")
	message.SetString(language.Estonian, "msg.read_failed", "Lugemine ebaõnnestus: %v")
	message.SetString(language.Estonian, "msg.write_timeout", "Kirjutamise ajalõpp")
	message.SetString(language.Estonian, "msg.write_failed", "Kirjutamine ebaõnnestus: %v")
	message.SetString(language.Estonian, "msg.settings_staged", "Sihtkoha %s seaded muutusid; need rakenduvad järgmisel tsüklil")
	message.SetString(language.Estonian, "msg.count_or_eop", "Count või EOP peab olema määratud")
	message.SetString(language.Estonian, "msg.no_endpoint_selected", "Sihtkohta pole valitud. Palun valige jadaport või host.")
}
