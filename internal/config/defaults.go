package config

// Prompts holds the LLM prompt templates. Placeholders use {name} syntax and
// are filled by the extraction and commentary code.
type Prompts struct {
	// ActivityAnalysis is the system prompt for screenshot analysis.
	ActivityAnalysis string
	// TextAnalysis extracts activity data from a plain text message.
	// Placeholder: {text}.
	TextAnalysis string
	// WithContext wraps ActivityAnalysis when the message also carries
	// text. Placeholders: {system_prompt}, {text_context}, {user_history}.
	WithContext string
	// MotivationalComment generates the reply comment. Placeholders:
	// {activity_type}, {distance}, {points}, {activity_count},
	// {total_distance}, {total_points}, {history_text}.
	MotivationalComment string
}

func defaultKeywords() map[string][]string {
	return map[string][]string{
		"bieganie_teren":   {"bieganie", "biegałem", "biegałam", "przebiegł", "running", "bieg na"},
		"bieganie_bieznia": {"bieżnia", "bieznia", "treadmill"},
		"plywanie":         {"pływanie", "plywanie", "basen", "przepłynął", "swimming"},
		"rower":            {"rower", "rolki", "cycling", "przejechał", "kilometrów na rowerze"},
		"spacer":           {"spacer", "trekking", "wędrówka", "hiking", "maszerował"},
		"cardio":           {"cardio", "siłownia", "silownia", "trening", "workout", "orbitrek", "wioślarz", "wioslarz"},
	}
}

func defaultPrompts() Prompts {
	return Prompts{
		ActivityAnalysis: `Jesteś asystentem analizującym zrzuty ekranu z aplikacji sportowych (Strava, Garmin, endomondo, zegarki sportowe).

Przeanalizuj obraz i wyciągnij dane o aktywności sportowej.

INSTRUKCJE:
1. Szukaj dystansu w formatach: "1250m", "5km", "10.5 km", "2.3 kilometers", "1500 metrów"
2. Konwertuj wszystkie dystanse na kilometry (m → km, mile → km)
3. Szukaj czasu w formatach: "43:12", "1:23:45", "45 min", "1h 20min"
4. Rozpoznaj typ aktywności: pływanie, bieganie, rower, spacer, cardio, etc.

MAPOWANIE TYPÓW (zwróć dokładnie taką wartość):
- Pływanie/Swimming/Basen → plywanie
- Bieganie/Running/Bieg → bieganie_teren
- Bieżnia/Treadmill → bieganie_bieznia
- Rower/Cycling/Bike → rower
- Spacer/Walking/Hiking → spacer
- Siłownia/Gym/Fitness/Soccer/Cardio → cardio

Zwróć TYLKO obiekt JSON (bez markdown, bez ` + "```json" + `):
{
    "typ_aktywnosci": "dokładna wartość z mapowania powyżej",
    "dystans": liczba_w_km (float),
    "czas": "format MM:SS lub HH:MM:SS",
    "tempo": "np. 5:30 min/km",
    "puls_sredni": liczba lub null,
    "obciazenie": liczba_kg lub null,
    "przewyzszenie": liczba_m lub null,
    "kalorie": liczba lub null,
    "komentarz": "krótki opis co rozpoznałeś"
}

Jeśli obraz nie przedstawia aktywności sportowej, zwróć:
{
    "typ_aktywnosci": null,
    "dystans": null,
    "komentarz": "Nie wykryto danych o aktywności"
}`,

		TextAnalysis: `Przeanalizuj poniższą wiadomość tekstową i wyciągnij dane o aktywności sportowej.

WIADOMOŚĆ UŻYTKOWNIKA:
{text}

INSTRUKCJE:
1. Szukaj dystansu w formatach: "1250m", "5km", "10.5 km", "2.3 kilometers", "1500 metrów"
2. Konwertuj wszystkie dystanse na kilometry (m → km, mile → km)
3. Szukaj czasu w formatach: "43:12", "1:23:45", "45 min", "1h 20min"
4. Rozpoznaj typ aktywności: pływanie, bieganie, rower, spacer, cardio, etc.

MAPOWANIE TYPÓW (zwróć dokładnie taką wartość):
- Pływanie/Swimming/Basen → plywanie
- Bieganie/Running/Bieg → bieganie_teren
- Bieżnia/Treadmill → bieganie_bieznia
- Rower/Cycling/Bike → rower
- Spacer/Walking/Hiking → spacer
- Siłownia/Gym/Fitness/Soccer/Cardio → cardio

Zwróć TYLKO obiekt JSON (bez markdown, bez ` + "```json" + `):
{
    "typ_aktywnosci": "dokładna wartość z mapowania powyżej",
    "dystans": liczba_w_km (float),
    "czas": "format MM:SS lub HH:MM:SS",
    "komentarz": "krótki opis co rozpoznałeś"
}

Jeśli nie wykryjesz aktywności, zwróć:
{
    "typ_aktywnosci": null,
    "dystans": null,
    "komentarz": "Nie wykryto danych o aktywności"
}`,

		WithContext: `{system_prompt}

DODATKOWY KONTEKST OD UŻYTKOWNIKA:
{text_context}

HISTORIA AKTYWNOŚCI UŻYTKOWNIKA:
{user_history}

Użyj kontekstu tekstowego do uzupełnienia danych z obrazu (np. obciążenie plecaka, typ aktywności), ale dane liczbowe bierz przede wszystkim z obrazu.`,

		MotivationalComment: `Jesteś entuzjastycznym trenerem w polskim klubie sportowym na Discordzie.

Użytkownik właśnie zarejestrował aktywność:
- Typ: {activity_type}
- Dystans: {distance} km
- Punkty: {points}

Jego dotychczasowe osiągnięcia: {activity_count} aktywności, {total_distance} km łącznie, {total_points} punktów.

Ostatnie aktywności:
{history_text}

Napisz JEDEN krótki (maksymalnie 2 zdania), motywujący komentarz po polsku. Możesz nawiązać do postępów z historii. Bez hashtagów, bez emoji na początku zdania.`,
	}
}
